// Package sources defines the price source contract and shared helpers.
package sources

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyGBP is the canonical currency every quote is normalized to.
const CurrencyGBP = "GBP"

// Source labels. The set is closed; there is no runtime registration.
const (
	NamePriceCharting = "PriceCharting"
	NameEBay          = "eBay"
	NameCex           = "CeX"
	NameAmazon        = "Amazon"
	NamePlayStation   = "PlayStation Store"
	NameSteam         = "Steam"
	NameGOG           = "GOG"
	NameCheapShark    = "CheapShark"
)

// MetaSteamAppID is the quote metadata key carrying a Steam app id
// discovered during a search lookup.
const MetaSteamAppID = "steam_appid"

// Query identifies the game a price is wanted for.
type Query struct {
	Title        string
	PlatformName string
	PlatformSlug string
	SteamAppID   string
}

// Quote is a single source's answer for a query, normalized to GBP.
// Immutable once produced.
type Quote struct {
	Source    string            `json:"source"`
	Price     decimal.Decimal   `json:"price"`
	Currency  string            `json:"currency"`
	FetchedAt time.Time         `json:"fetched_at"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Source wraps one external price source. Fetch returns at most one quote:
// (nil, nil) means no usable price was found, which is not an error.
// Transport failures, malformed payloads and subprocess protocol violations
// are returned as errors; the caller decides how to absorb them.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) (*Quote, error)
}

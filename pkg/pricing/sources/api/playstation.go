package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

const playstationSearchURL = "https://store.playstation.com/en-gb/search/"

// PlayStation store pages are server-rendered with the product data
// embedded in a __NEXT_DATA__ JSON blob.
var nextDataRe = regexp.MustCompile(`<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)

var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// PlayStationSource scrapes the UK PlayStation store search page and digs
// the first matching product's price out of the embedded JSON.
type PlayStationSource struct {
	baseURL string
	client  *resty.Client
	logger  *logging.Logger
}

// NewPlayStationSource creates the PlayStation store source.
func NewPlayStationSource(client *resty.Client, logger *logging.Logger) *PlayStationSource {
	return &PlayStationSource{
		baseURL: playstationSearchURL,
		client:  client,
		logger:  logger,
	}
}

// Name returns the source label.
func (s *PlayStationSource) Name() string { return sources.NamePlayStation }

// Fetch loads the search page for the title and walks the embedded JSON for
// the first product whose name contains the title.
func (s *PlayStationSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept-Language", "en-GB,en;q=0.9").
		Get(s.baseURL + url.PathEscape(q.Title))
	if err != nil {
		return nil, fmt.Errorf("playstation search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	matches := nextDataRe.FindSubmatch(resp.Body())
	if matches == nil {
		return nil, fmt.Errorf("%w: no __NEXT_DATA__ blob", sources.ErrInvalidResponse)
	}

	var data interface{}
	if err := json.Unmarshal(matches[1], &data); err != nil {
		return nil, fmt.Errorf("%w: %v", sources.ErrInvalidResponse, err)
	}

	price := findProductPrice(data, q.Title)
	if price == nil {
		return nil, nil
	}

	return &sources.Quote{
		Source:    s.Name(),
		Price:     *price,
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// findProductPrice walks an arbitrary JSON structure depth-first for the
// first object that has both a price field and a name containing the search
// title. Discounted prices win over base prices.
func findProductPrice(node interface{}, title string) *decimal.Decimal {
	switch v := node.(type) {
	case map[string]interface{}:
		if price := productPrice(v, title); price != nil {
			return price
		}
		for _, child := range v {
			if price := findProductPrice(child, title); price != nil {
				return price
			}
		}
	case []interface{}:
		for _, child := range v {
			if price := findProductPrice(child, title); price != nil {
				return price
			}
		}
	}
	return nil
}

func productPrice(obj map[string]interface{}, title string) *decimal.Decimal {
	name, ok := obj["name"].(string)
	if !ok || !strings.Contains(strings.ToLower(name), strings.ToLower(title)) {
		return nil
	}

	priceString := ""
	if base, ok := obj["basePrice"].(string); ok {
		priceString = base
	} else if price, ok := obj["price"].(map[string]interface{}); ok {
		if base, ok := price["basePrice"].(string); ok {
			priceString = base
		}
	}
	if discounted, ok := obj["discountedPrice"].(string); ok && discounted != "" {
		priceString = discounted
	}
	if priceString == "" {
		return nil
	}

	return parseDisplayPrice(priceString)
}

// parseDisplayPrice turns a display string like "£49.99" into a decimal.
// "Free" is a real price of zero.
func parseDisplayPrice(s string) *decimal.Decimal {
	if strings.Contains(strings.ToLower(s), "free") {
		zero := decimal.Zero
		return &zero
	}

	cleaned := nonPriceChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return nil
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &price
}

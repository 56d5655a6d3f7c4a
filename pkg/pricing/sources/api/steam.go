package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

const steamBaseURL = "https://store.steampowered.com/api"

// SteamSource fetches store prices from the Steam storefront API. With a
// known app id it asks for that app directly; without one it searches by
// title and records the discovered app id in the quote metadata so the
// caller can persist it.
type SteamSource struct {
	baseURL string
	client  *resty.Client
	logger  *logging.Logger
}

// NewSteamSource creates the Steam source.
func NewSteamSource(client *resty.Client, logger *logging.Logger) *SteamSource {
	return &SteamSource{
		baseURL: steamBaseURL,
		client:  client,
		logger:  logger,
	}
}

// Name returns the source label.
func (s *SteamSource) Name() string { return sources.NameSteam }

// Fetch quotes by app id when known, by title search otherwise.
func (s *SteamSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	if q.SteamAppID != "" {
		return s.fetchByAppID(ctx, q.SteamAppID)
	}
	return s.fetchBySearch(ctx, q.Title)
}

func (s *SteamSource) fetchByAppID(ctx context.Context, appID string) (*sources.Quote, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appids": appID,
			"cc":     "GB",
			"l":      "en",
		}).
		Get(s.baseURL + "/appdetails")
	if err != nil {
		return nil, fmt.Errorf("steam appdetails: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	var payload map[string]struct {
		Success bool `json:"success"`
		Data    struct {
			PriceOverview *struct {
				Final int64 `json:"final"`
			} `json:"price_overview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", sources.ErrInvalidResponse, err)
	}

	app, ok := payload[appID]
	if !ok || !app.Success || app.Data.PriceOverview == nil {
		return nil, nil
	}

	return &sources.Quote{
		Source:    s.Name(),
		Price:     pennies(app.Data.PriceOverview.Final),
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

type steamSearchResponse struct {
	Items []struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Price *struct {
			Final int64 `json:"final"`
		} `json:"price"`
	} `json:"items"`
}

func (s *SteamSource) fetchBySearch(ctx context.Context, title string) (*sources.Quote, error) {
	var result steamSearchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"term": title,
			"l":    "en",
			"cc":   "GB",
		}).
		SetResult(&result).
		Get(s.baseURL + "/storesearch")
	if err != nil {
		return nil, fmt.Errorf("steam storesearch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	if len(result.Items) == 0 {
		return nil, nil
	}
	item := result.Items[0]
	if item.Price == nil {
		return nil, nil
	}

	return &sources.Quote{
		Source:    s.Name(),
		Price:     pennies(item.Price.Final),
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
		Meta: map[string]string{
			sources.MetaSteamAppID: strconv.FormatInt(item.ID, 10),
		},
	}, nil
}

// pennies converts a price expressed in hundredths into a decimal amount.
func pennies(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(decimal.NewFromInt(100))
}

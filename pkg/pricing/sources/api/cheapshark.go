package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/currency"
	"gc.dev/game-prices/pkg/pricing/sources"
)

const cheapSharkBaseURL = "https://www.cheapshark.com/api/1.0/games"

// CheapSharkSource quotes the cheapest current deal across the stores
// CheapShark tracks. Deal prices are USD.
type CheapSharkSource struct {
	baseURL string
	client  *resty.Client
	conv    *currency.Converter
	logger  *logging.Logger
}

// NewCheapSharkSource creates the CheapShark source.
func NewCheapSharkSource(client *resty.Client, conv *currency.Converter, logger *logging.Logger) *CheapSharkSource {
	return &CheapSharkSource{
		baseURL: cheapSharkBaseURL,
		client:  client,
		conv:    conv,
		logger:  logger,
	}
}

// Name returns the source label.
func (s *CheapSharkSource) Name() string { return sources.NameCheapShark }

type cheapSharkGame struct {
	External string `json:"external"`
	Cheapest string `json:"cheapest"`
}

// Fetch looks the title up and converts the cheapest deal into GBP.
func (s *CheapSharkSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	var games []cheapSharkGame
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"title": q.Title,
			"limit": "1",
		}).
		SetResult(&games).
		Get(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("cheapshark request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	if len(games) == 0 || games[0].Cheapest == "" {
		return nil, nil
	}

	usd, err := decimal.NewFromString(games[0].Cheapest)
	if err != nil {
		return nil, fmt.Errorf("%w: bad price %q", sources.ErrInvalidResponse, games[0].Cheapest)
	}

	return &sources.Quote{
		Source:    s.Name(),
		Price:     s.conv.ToGBP(usd, "USD"),
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

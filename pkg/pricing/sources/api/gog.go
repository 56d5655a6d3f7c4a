package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

const gogCatalogURL = "https://catalog.gog.com/v1/catalog"

// GOGSource fetches prices from the GOG catalog search, already quoted in
// GBP for the UK storefront.
type GOGSource struct {
	baseURL string
	client  *resty.Client
	logger  *logging.Logger
}

// NewGOGSource creates the GOG source.
func NewGOGSource(client *resty.Client, logger *logging.Logger) *GOGSource {
	return &GOGSource{
		baseURL: gogCatalogURL,
		client:  client,
		logger:  logger,
	}
}

// Name returns the source label.
func (s *GOGSource) Name() string { return sources.NameGOG }

type gogCatalogResponse struct {
	Products []struct {
		Title string `json:"title"`
		Price *struct {
			FinalMoney struct {
				Amount string `json:"amount"`
			} `json:"finalMoney"`
		} `json:"price"`
	} `json:"products"`
}

// Fetch searches the catalog ordered by relevance and quotes the top hit.
func (s *GOGSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	var result gogCatalogResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":        "1",
			"search":       q.Title,
			"countryCode":  "GB",
			"currencyCode": "GBP",
			"order":        "desc:score",
			"productType":  "inGame",
		}).
		SetResult(&result).
		Get(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("gog catalog: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	if len(result.Products) == 0 {
		return nil, nil
	}
	product := result.Products[0]
	if product.Price == nil || product.Price.FinalMoney.Amount == "" {
		return nil, nil
	}

	price, err := decimal.NewFromString(product.Price.FinalMoney.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount %q", sources.ErrInvalidResponse, product.Price.FinalMoney.Amount)
	}

	return &sources.Quote{
		Source:    s.Name(),
		Price:     price,
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Package api implements the API- and HTML-backed price sources.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/currency"
	"gc.dev/game-prices/pkg/pricing/sources"
)

const priceChartingBaseURL = "https://www.pricecharting.com/api/products"

// PriceChartingSource fetches collectible market values from the
// PriceCharting products API. Prices come back in USD cents.
type PriceChartingSource struct {
	apiKey  string
	baseURL string
	client  *resty.Client
	conv    *currency.Converter
	logger  *logging.Logger
}

// NewPriceChartingSource creates the PriceCharting source. The caller is
// responsible for only constructing it when an API key is configured.
func NewPriceChartingSource(apiKey string, client *resty.Client, conv *currency.Converter, logger *logging.Logger) *PriceChartingSource {
	return &PriceChartingSource{
		apiKey:  apiKey,
		baseURL: priceChartingBaseURL,
		client:  client,
		conv:    conv,
		logger:  logger,
	}
}

// Name returns the source label.
func (s *PriceChartingSource) Name() string { return sources.NamePriceCharting }

type priceChartingProduct struct {
	ProductName string `json:"product-name"`
	ConsoleName string `json:"console-name"`
	CIBPrice    int64  `json:"cib-price"`
	LoosePrice  int64  `json:"loose-price"`
	NewPrice    int64  `json:"new-price"`
}

// Fetch looks the title up and prefers a product whose console matches the
// platform hint, falling back to the first result.
func (s *PriceChartingSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"t": s.apiKey,
			"q": q.Title,
		}).
		Get(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("pricecharting request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	body := bytes.TrimSpace(resp.Body())

	// The API answers with {"status":"fail",...} for unknown titles and a
	// product array otherwise.
	if bytes.HasPrefix(body, []byte("{")) {
		var status struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, fmt.Errorf("%w: %v", sources.ErrInvalidResponse, err)
		}
		if status.Status == "fail" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: unexpected object payload", sources.ErrInvalidResponse)
	}

	var products []priceChartingProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", sources.ErrInvalidResponse, err)
	}
	if len(products) == 0 {
		return nil, nil
	}

	product := products[0]
	if q.PlatformName != "" {
		platform := strings.ToLower(q.PlatformName)
		for _, p := range products {
			console := strings.ToLower(p.ConsoleName)
			if console == platform || strings.Contains(console, platform) || strings.Contains(platform, console) {
				product = p
				break
			}
		}
	}

	price := s.extractPrice(product)
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

// extractPrice prefers complete-in-box, then loose, then new. Prices are
// USD cents.
func (s *PriceChartingSource) extractPrice(p priceChartingProduct) *decimal.Decimal {
	var cents int64
	switch {
	case p.CIBPrice > 0:
		cents = p.CIBPrice
	case p.LoosePrice > 0:
		cents = p.LoosePrice
	case p.NewPrice > 0:
		cents = p.NewPrice
	default:
		return nil
	}

	usd := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	gbp := s.conv.ToGBP(usd, "USD")
	return &gbp
}

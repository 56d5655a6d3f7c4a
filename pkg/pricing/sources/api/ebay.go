package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/currency"
	"gc.dev/game-prices/pkg/pricing/sources"
)

const (
	ebaySearchURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	ebayAuthURL   = "https://api.ebay.com/identity/v1/oauth2/token"
	ebayScope     = "https://api.ebay.com/oauth/api_scope"

	// ebayTokenSlack is shaved off the advertised token lifetime so a
	// token is never used right at its expiry edge.
	ebayTokenSlack = 200 * time.Second
)

// EBaySource quotes the average Buy-It-Now price of the top listings on the
// UK marketplace. Listings in foreign currencies are converted per item
// before averaging.
type EBaySource struct {
	clientID     string
	clientSecret string
	searchURL    string
	authURL      string
	client       *resty.Client
	conv         *currency.Converter
	logger       *logging.Logger

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewEBaySource creates the eBay source. The caller is responsible for only
// constructing it when client credentials are configured.
func NewEBaySource(clientID, clientSecret string, client *resty.Client, conv *currency.Converter, logger *logging.Logger) *EBaySource {
	return &EBaySource{
		clientID:     clientID,
		clientSecret: clientSecret,
		searchURL:    ebaySearchURL,
		authURL:      ebayAuthURL,
		client:       client,
		conv:         conv,
		logger:       logger,
	}
}

// Name returns the source label.
func (s *EBaySource) Name() string { return sources.NameEBay }

type ebaySearchResponse struct {
	ItemSummaries []struct {
		Price struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"itemSummaries"`
}

// Fetch searches fixed-price listings for the title (plus platform hint)
// and averages up to five results.
func (s *EBaySource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	query := q.Title
	if q.PlatformName != "" {
		query += " " + q.PlatformName
	}

	var result ebaySearchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("X-EBAY-C-MARKETPLACE-ID", "EBAY_GB").
		SetQueryParams(map[string]string{
			"q":      query,
			"limit":  "5",
			"filter": "buyingOptions:{FIXED_PRICE}",
		}).
		SetResult(&result).
		Get(s.searchURL)
	if err != nil {
		return nil, fmt.Errorf("ebay search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode())
	}

	sum := decimal.Zero
	count := 0
	for _, item := range result.ItemSummaries {
		if item.Price.Value == "" {
			continue
		}
		value, err := decimal.NewFromString(item.Price.Value)
		if err != nil {
			continue
		}
		code := item.Price.Currency
		if code == "" {
			code = sources.CurrencyGBP
		}
		sum = sum.Add(s.conv.ToGBP(value, code))
		count++
	}
	if count == 0 {
		return nil, nil
	}

	avg := sum.Div(decimal.NewFromInt(int64(count))).Round(2)
	return &sources.Quote{
		Source:    s.Name(),
		Price:     avg,
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

type ebayTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached client-credentials token, refreshing it when
// close to expiry.
func (s *EBaySource) accessToken(ctx context.Context) (string, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	var result ebayTokenResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.clientID, s.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
			"scope":      ebayScope,
		}).
		SetResult(&result).
		Post(s.authURL)
	if err != nil {
		return "", fmt.Errorf("ebay auth: %w", err)
	}
	if resp.StatusCode() != http.StatusOK || result.AccessToken == "" {
		return "", fmt.Errorf("%w: status %d", sources.ErrAuthFailed, resp.StatusCode())
	}

	s.token = result.AccessToken
	lifetime := time.Duration(result.ExpiresIn) * time.Second
	if lifetime > ebayTokenSlack {
		lifetime -= ebayTokenSlack
	}
	s.tokenExpiry = time.Now().Add(lifetime)

	return s.token, nil
}

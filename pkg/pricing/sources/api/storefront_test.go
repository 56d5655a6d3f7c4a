package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGOGSource_Fetch(t *testing.T) {
	server := jsonServer(t, `{"products":[{"title":"Cyberpunk 2077","price":{"finalMoney":{"amount":"39.99","currency":"GBP"}}}]}`)

	s := NewGOGSource(sources.NewHTTPClient(5*time.Second), logging.NewNoopLogger())
	s.baseURL = server.URL

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Cyberpunk 2077"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	if quote.Price.String() != "39.99" {
		t.Errorf("price = %s, want 39.99", quote.Price)
	}
	if quote.Source != sources.NameGOG {
		t.Errorf("source = %s", quote.Source)
	}
}

func TestGOGSource_NoProducts(t *testing.T) {
	server := jsonServer(t, `{"products":[]}`)

	s := NewGOGSource(sources.NewHTTPClient(5*time.Second), logging.NewNoopLogger())
	s.baseURL = server.URL

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "nothing"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected no quote, got %+v", quote)
	}
}

func TestGOGSource_ProductWithoutPrice(t *testing.T) {
	server := jsonServer(t, `{"products":[{"title":"Unreleased","price":null}]}`)

	s := NewGOGSource(sources.NewHTTPClient(5*time.Second), logging.NewNoopLogger())
	s.baseURL = server.URL

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Unreleased"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected no quote, got %+v", quote)
	}
}

func TestCheapSharkSource_Fetch(t *testing.T) {
	server := jsonServer(t, `[{"external":"Hades","cheapest":"10.00"}]`)

	conv, logger := testClient()
	s := NewCheapSharkSource(sources.NewHTTPClient(5*time.Second), conv, logger)
	s.baseURL = server.URL

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Hades"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	// 10 USD at the fixed 0.82 rate.
	if quote.Price.String() != "8.2" {
		t.Errorf("price = %s, want 8.2", quote.Price)
	}
	if quote.Currency != sources.CurrencyGBP {
		t.Errorf("currency = %s", quote.Currency)
	}
}

func TestCheapSharkSource_NoGames(t *testing.T) {
	server := jsonServer(t, `[]`)

	conv, logger := testClient()
	s := NewCheapSharkSource(sources.NewHTTPClient(5*time.Second), conv, logger)
	s.baseURL = server.URL

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "nothing"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected no quote, got %+v", quote)
	}
}

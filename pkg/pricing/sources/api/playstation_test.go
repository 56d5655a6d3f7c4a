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

func psPage(nextData string) string {
	return `<!DOCTYPE html><html><body><div id="root"></div>` +
		`<script id="__NEXT_DATA__" type="application/json">` + nextData + `</script>` +
		`</body></html>`
}

func newPlayStationTest(t *testing.T, body string, status int) *PlayStationSource {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	s := NewPlayStationSource(sources.NewHTTPClient(5*time.Second), logging.NewNoopLogger())
	s.baseURL = server.URL + "/search/"
	return s
}

func TestPlayStationSource_Fetch(t *testing.T) {
	page := psPage(`{"props":{"pageProps":{"results":[
		{"name":"Stray","basePrice":"£24.99"}
	]}}}`)
	s := newPlayStationTest(t, page, http.StatusOK)

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Stray"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	if quote.Price.String() != "24.99" {
		t.Errorf("price = %s, want 24.99", quote.Price)
	}
	if quote.Currency != sources.CurrencyGBP {
		t.Errorf("currency = %s", quote.Currency)
	}
}

func TestPlayStationSource_DiscountWins(t *testing.T) {
	page := psPage(`{"props":{"pageProps":{"results":[
		{"name":"Stray","basePrice":"£24.99","discountedPrice":"£14.99"}
	]}}}`)
	s := newPlayStationTest(t, page, http.StatusOK)

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Stray"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil || quote.Price.String() != "14.99" {
		t.Errorf("expected discounted price 14.99, got %v", quote)
	}
}

func TestPlayStationSource_FreeIsZero(t *testing.T) {
	page := psPage(`{"props":{"pageProps":{"results":[
		{"name":"Fortnite","basePrice":"Free"}
	]}}}`)
	s := newPlayStationTest(t, page, http.StatusOK)

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Fortnite"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil {
		t.Fatal("a free product is still a quote")
	}
	if !quote.Price.IsZero() {
		t.Errorf("price = %s, want 0", quote.Price)
	}
}

func TestPlayStationSource_NameMustContainTitle(t *testing.T) {
	page := psPage(`{"props":{"pageProps":{"results":[
		{"name":"Some Other Game","basePrice":"£9.99"}
	]}}}`)
	s := newPlayStationTest(t, page, http.StatusOK)

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Stray"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected no quote for an unrelated product, got %+v", quote)
	}
}

func TestPlayStationSource_MissingNextData(t *testing.T) {
	s := newPlayStationTest(t, `<html><body>maintenance</body></html>`, http.StatusOK)

	if _, err := s.Fetch(context.Background(), sources.Query{Title: "Stray"}); err == nil {
		t.Fatal("expected an error when the page has no embedded JSON")
	}
}

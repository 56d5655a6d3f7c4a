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

func newSteamTest(t *testing.T, handler http.HandlerFunc) *SteamSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewSteamSource(sources.NewHTTPClient(5*time.Second), logging.NewNoopLogger())
	s.baseURL = server.URL
	return s
}

func TestSteamSource_FetchByAppID(t *testing.T) {
	s := newSteamTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appdetails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("appids"); got != "504230" {
			t.Errorf("appids = %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"504230":{"success":true,"data":{"price_overview":{"final":1999,"currency":"GBP"}}}}`))
	})

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Celeste", SteamAppID: "504230"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	if quote.Price.String() != "19.99" {
		t.Errorf("price = %s, want 19.99", quote.Price)
	}
	if _, ok := quote.Meta[sources.MetaSteamAppID]; ok {
		t.Error("an app id lookup should not re-report the app id")
	}
}

func TestSteamSource_FetchByAppID_FreeOrUnlisted(t *testing.T) {
	s := newSteamTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"440":{"success":true,"data":{}}}`))
	})

	quote, err := s.Fetch(context.Background(), sources.Query{SteamAppID: "440"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote != nil {
		t.Errorf("an app without price_overview yields no quote, got %+v", quote)
	}
}

func TestSteamSource_FetchBySearch(t *testing.T) {
	s := newSteamTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storesearch" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":504230,"name":"Celeste","price":{"final":1999}}]}`))
	})

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "Celeste"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	if quote.Price.String() != "19.99" {
		t.Errorf("price = %s, want 19.99", quote.Price)
	}
	if got := quote.Meta[sources.MetaSteamAppID]; got != "504230" {
		t.Errorf("discovered app id = %q, want 504230", got)
	}
}

func TestSteamSource_FetchBySearch_NoResults(t *testing.T) {
	s := newSteamTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	quote, err := s.Fetch(context.Background(), sources.Query{Title: "nothing"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected no quote, got %+v", quote)
	}
}

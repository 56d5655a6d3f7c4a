package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/pricing/sources"
)

func testQuotes() []sources.Quote {
	return []sources.Quote{
		{
			Source:    sources.NamePriceCharting,
			Price:     decimal.RequireFromString("25.00"),
			Currency:  sources.CurrencyGBP,
			FetchedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Source:   sources.NameSteam,
			Price:    decimal.RequireFromString("19.99"),
			Currency: sources.CurrencyGBP,
			Meta:     map[string]string{sources.MetaSteamAppID: "292030"},
		},
	}
}

func TestMemory_TTL(t *testing.T) {
	m := NewMemory(24 * time.Hour)
	defer m.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	m.Put(ctx, "fp", testQuotes())

	// Served unchanged just before expiry.
	now = now.Add(23*time.Hour + 59*time.Minute)
	got, ok := m.Get(ctx, "fp")
	if !ok {
		t.Fatal("expected hit before TTL expiry")
	}
	if len(got) != 2 || got[0].Source != sources.NamePriceCharting {
		t.Fatalf("unexpected cached quotes: %+v", got)
	}

	// Absent just after expiry.
	now = now.Add(2 * time.Minute)
	if _, ok := m.Get(ctx, "fp"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestMemory_PutReplacesEntry(t *testing.T) {
	m := NewMemory(time.Hour)
	defer m.Close()
	ctx := context.Background()

	m.Put(ctx, "fp", testQuotes())
	m.Put(ctx, "fp", testQuotes()[:1])

	got, ok := m.Get(ctx, "fp")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != 1 {
		t.Fatalf("expected the second write to replace the entry, got %d quotes", len(got))
	}
}

func TestMemory_NoAliasing(t *testing.T) {
	m := NewMemory(time.Hour)
	defer m.Close()
	ctx := context.Background()

	original := testQuotes()
	m.Put(ctx, "fp", original)

	// Mutating what was stored must not affect the cache.
	original[0].Source = "mutated"
	original[1].Meta[sources.MetaSteamAppID] = "0"

	first, _ := m.Get(ctx, "fp")
	if first[0].Source != sources.NamePriceCharting {
		t.Error("cache aliased the caller's slice on Put")
	}
	if first[1].Meta[sources.MetaSteamAppID] != "292030" {
		t.Error("cache aliased the caller's metadata map on Put")
	}

	// Mutating a returned copy must not affect later readers.
	first[0].Source = "mutated"
	second, _ := m.Get(ctx, "fp")
	if second[0].Source != sources.NamePriceCharting {
		t.Error("cache returned an aliased slice on Get")
	}
}

func TestMemory_Sweep(t *testing.T) {
	m := NewMemory(time.Hour)
	defer m.Close()

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Put(context.Background(), "old", testQuotes())
	now = now.Add(2 * time.Hour)
	m.Put(context.Background(), "fresh", testQuotes())

	m.sweep()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.entries["old"]; ok {
		t.Error("sweep left an expired entry behind")
	}
	if _, ok := m.entries["fresh"]; !ok {
		t.Error("sweep removed a live entry")
	}
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/pricing/sources"
)

func quote(source, price string) sources.Quote {
	return sources.Quote{
		Source:   source,
		Price:    decimal.RequireFromString(price),
		Currency: sources.CurrencyGBP,
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name       string
		quotes     []sources.Quote
		wantSource string
		wantPrice  string
	}{
		{
			name:       "priority beats input order",
			quotes:     []sources.Quote{quote(sources.NameEBay, "20.00"), quote(sources.NamePriceCharting, "25.00")},
			wantSource: sources.NamePriceCharting,
			wantPrice:  "25",
		},
		{
			name:       "lowest-priority source still wins alone",
			quotes:     []sources.Quote{quote(sources.NameCheapShark, "8.20")},
			wantSource: sources.NameCheapShark,
			wantPrice:  "8.2",
		},
		{
			name: "full order respected",
			quotes: []sources.Quote{
				quote(sources.NameGOG, "5.00"),
				quote(sources.NameSteam, "6.00"),
				quote(sources.NameCex, "7.00"),
			},
			wantSource: sources.NameCex,
			wantPrice:  "7",
		},
		{
			name:       "unknown source falls back to invocation order",
			quotes:     []sources.Quote{quote("SomethingElse", "3.00"), quote("AlsoUnknown", "4.00")},
			wantSource: "SomethingElse",
			wantPrice:  "3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBest(tt.quotes)
			if got == nil {
				t.Fatal("expected a selection")
			}
			if got.Source != tt.wantSource {
				t.Errorf("source = %s, want %s", got.Source, tt.wantSource)
			}
			if got.Price.String() != tt.wantPrice {
				t.Errorf("price = %s, want %s", got.Price, tt.wantPrice)
			}
		})
	}
}

func TestSelectBest_Empty(t *testing.T) {
	if got := SelectBest(nil); got != nil {
		t.Errorf("expected nil for empty result, got %+v", got)
	}
}

func TestSelectBest_Deterministic(t *testing.T) {
	a := []sources.Quote{quote(sources.NameEBay, "20.00"), quote(sources.NamePriceCharting, "25.00")}
	b := []sources.Quote{quote(sources.NamePriceCharting, "25.00"), quote(sources.NameEBay, "20.00")}

	selA, selB := SelectBest(a), SelectBest(b)
	if selA.Source != selB.Source || !selA.Price.Equal(selB.Price) {
		t.Errorf("selection must not depend on input order: %+v vs %+v", selA, selB)
	}
}

package pricing

import (
	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/pricing/sources"
)

// priorityOrder is the fixed total order used to pick the best quote:
// collector market values first, then marketplaces, then store prices,
// then deal aggregators. Never reordered at runtime.
var priorityOrder = []string{
	sources.NamePriceCharting,
	sources.NameEBay,
	sources.NameCex,
	sources.NameAmazon,
	sources.NamePlayStation,
	sources.NameSteam,
	sources.NameGOG,
	sources.NameCheapShark,
}

// Selection is the single best quote derived from an aggregation result.
// Recomputed on demand, never cached.
type Selection struct {
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
}

// SelectBest picks the first quote whose source comes earliest in the
// priority order. The source set is closed, but if a quote somehow carries
// an unknown label the first quote by invocation order wins. Returns nil
// for an empty result.
func SelectBest(quotes []sources.Quote) *Selection {
	if len(quotes) == 0 {
		return nil
	}

	for _, name := range priorityOrder {
		for _, q := range quotes {
			if q.Source == name {
				return &Selection{Price: q.Price, Source: q.Source}
			}
		}
	}

	return &Selection{Price: quotes[0].Price, Source: quotes[0].Source}
}

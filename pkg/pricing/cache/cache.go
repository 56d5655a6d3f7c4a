// Package cache memoizes aggregation results keyed by request fingerprint.
package cache

import (
	"context"

	"gc.dev/game-prices/pkg/pricing/sources"
)

// Cache stores one quote list per fingerprint with a fixed TTL. A write
// replaces the whole entry; an expired, corrupt or unreachable entry
// behaves as a miss. Implementations must never let a caller mutate a
// cached value through a returned slice.
type Cache interface {
	Get(ctx context.Context, fingerprint string) ([]sources.Quote, bool)
	Put(ctx context.Context, fingerprint string, quotes []sources.Quote)
}

// copyQuotes deep-copies a quote list so cached state is never aliased.
func copyQuotes(quotes []sources.Quote) []sources.Quote {
	out := make([]sources.Quote, len(quotes))
	copy(out, quotes)
	for i := range out {
		if out[i].Meta == nil {
			continue
		}
		meta := make(map[string]string, len(out[i].Meta))
		for k, v := range out[i].Meta {
			meta[k] = v
		}
		out[i].Meta = meta
	}
	return out
}

// Package pricing implements the market price aggregation engine: fan-out
// over the configured sources, best-quote selection and result caching.
package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/metrics"
	"gc.dev/game-prices/pkg/pricing/cache"
	"gc.dev/game-prices/pkg/pricing/sources"
)

// Entry binds a source to its applicability predicate. The Manager iterates
// a fixed ordered list of entries instead of hardcoding per-source checks.
// A nil predicate means the source always runs.
type Entry struct {
	Source     sources.Source
	Applicable func(sources.Query) bool
}

// Options configures a Manager.
type Options struct {
	// SourceTimeout bounds each individual source lookup.
	SourceTimeout time.Duration
	// AggregationTimeout bounds the whole fan-out; sources still running
	// at the deadline contribute no quote.
	AggregationTimeout time.Duration
}

// Manager orchestrates source fan-out and owns the result cache.
type Manager struct {
	entries []Entry
	cache   cache.Cache
	opts    Options
	logger  *logging.Logger
	group   singleflight.Group
}

// NewManager creates a Manager over an ordered entry list. Entry order is
// the invocation order and determines quote order in results.
func NewManager(entries []Entry, resultCache cache.Cache, opts Options, logger *logging.Logger) *Manager {
	if opts.SourceTimeout == 0 {
		opts.SourceTimeout = 30 * time.Second
	}
	if opts.AggregationTimeout == 0 {
		opts.AggregationTimeout = 120 * time.Second
	}
	return &Manager{
		entries: entries,
		cache:   resultCache,
		opts:    opts,
		logger:  logger,
	}
}

// GetMarketPrices returns the quote list for a query, from cache when a
// fresh entry exists and via a live fan-out otherwise. forceRefresh always
// fans out and still replaces the cached entry afterwards. Concurrent
// cache misses for the same fingerprint share a single fan-out.
func (m *Manager) GetMarketPrices(ctx context.Context, q sources.Query, forceRefresh bool) ([]sources.Quote, error) {
	fingerprint := Fingerprint(q)

	if forceRefresh {
		return m.aggregate(ctx, q, fingerprint)
	}

	if quotes, ok := m.cache.Get(ctx, fingerprint); ok {
		metrics.RecordCacheRequest(true)
		return quotes, nil
	}
	metrics.RecordCacheRequest(false)

	v, err, _ := m.group.Do(fingerprint, func() (interface{}, error) {
		// Another caller may have finished the same fan-out while this one
		// waited for the flight slot.
		if quotes, ok := m.cache.Get(ctx, fingerprint); ok {
			return quotes, nil
		}
		return m.aggregate(ctx, q, fingerprint)
	})
	if err != nil {
		return nil, err
	}

	// Coalesced callers share the flight result; hand each its own copy.
	return cloneQuotes(v.([]sources.Quote)), nil
}

// aggregate fans out to every applicable source concurrently, collects the
// quotes in invocation order and replaces the cached entry.
func (m *Manager) aggregate(parent context.Context, q sources.Query, fingerprint string) ([]sources.Quote, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(parent, m.opts.AggregationTimeout)
	defer cancel()

	applicable := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Applicable == nil || e.Applicable(q) {
			applicable = append(applicable, e)
		}
	}

	m.logger.Info("Aggregating market prices",
		"title", q.Title,
		"platform", q.PlatformName,
		"sources", len(applicable))

	// One slot per source keeps invocation order stable regardless of
	// completion order. A failed or timed-out source leaves its slot nil.
	results := make([]*sources.Quote, len(applicable))

	var wg sync.WaitGroup
	for i, e := range applicable {
		wg.Add(1)
		go func(i int, e Entry) {
			defer wg.Done()
			results[i] = m.lookup(ctx, e.Source, q)
		}(i, e)
	}
	wg.Wait()

	quotes := make([]sources.Quote, 0, len(applicable))
	for _, r := range results {
		if r != nil {
			quotes = append(quotes, *r)
		}
	}

	metrics.RecordAggregation(time.Since(start))

	// A caller that went away mid-flight must not leave a partial entry
	// behind. Hitting the overall deadline is not cancellation: whatever
	// completed in time is the result and gets cached.
	if err := parent.Err(); err != nil {
		return nil, err
	}
	m.cache.Put(parent, fingerprint, quotes)

	m.logger.Info("Aggregation complete",
		"title", q.Title,
		"quotes", len(quotes),
		"duration", time.Since(start).String())

	return quotes, nil
}

// lookup runs one source under its own deadline. Failures are logged and
// absorbed here so one source can never affect another or the caller.
func (m *Manager) lookup(ctx context.Context, source sources.Source, q sources.Query) *sources.Quote {
	ctx, cancel := context.WithTimeout(ctx, m.opts.SourceTimeout)
	defer cancel()

	start := time.Now()
	quote, err := source.Fetch(ctx, q)
	elapsed := time.Since(start)

	if err != nil {
		m.logger.Warn("Source lookup failed",
			"source", source.Name(),
			"title", q.Title,
			"error", err.Error())
		metrics.RecordSourceLookup(source.Name(), "error", elapsed)
		return nil
	}
	if quote == nil {
		m.logger.Debug("No price found", "source", source.Name(), "title", q.Title)
		metrics.RecordSourceLookup(source.Name(), "miss", elapsed)
		return nil
	}

	m.logger.Info("Price found",
		"source", source.Name(),
		"title", q.Title,
		"price", quote.Price.String())
	metrics.RecordSourceLookup(source.Name(), "hit", elapsed)
	return quote
}

// GameIdentity is what the price refresh needs to know about a game.
type GameIdentity struct {
	Title        string
	PlatformName string
	PlatformSlug string
	SteamAppID   string
}

// PriceUpdate is the outcome of a successful price refresh for one game.
type PriceUpdate struct {
	Price  decimal.Decimal
	Source string
	Quotes []sources.Quote
	// DiscoveredSteamAppID is set when a search lookup turned up a Steam
	// app id for a game that had none; callers should persist it.
	DiscoveredSteamAppID string
}

// UpdateGamePrice aggregates quotes for a game and selects the best one.
// A nil result with a nil error means no source produced a quote, which is
// a legitimate outcome rather than an error.
func (m *Manager) UpdateGamePrice(ctx context.Context, game GameIdentity) (*PriceUpdate, error) {
	q := sources.Query{
		Title:        game.Title,
		PlatformName: game.PlatformName,
		PlatformSlug: game.PlatformSlug,
		SteamAppID:   game.SteamAppID,
	}

	quotes, err := m.GetMarketPrices(ctx, q, false)
	if err != nil {
		return nil, err
	}

	selection := SelectBest(quotes)
	if selection == nil {
		m.logger.Warn("No prices found", "title", game.Title)
		return nil, nil
	}

	update := &PriceUpdate{
		Price:  selection.Price,
		Source: selection.Source,
		Quotes: quotes,
	}
	if game.SteamAppID == "" {
		for _, quote := range quotes {
			if id, ok := quote.Meta[sources.MetaSteamAppID]; ok && id != "" {
				update.DiscoveredSteamAppID = id
				break
			}
		}
	}
	return update, nil
}

// cloneQuotes deep-copies a quote list so callers never share state.
func cloneQuotes(quotes []sources.Quote) []sources.Quote {
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

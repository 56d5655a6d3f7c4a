package scrape

import (
	"context"
	"time"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/match"
	"gc.dev/game-prices/pkg/pricing/sources"
)

// CexSource quotes second-hand prices from CeX UK via the scraper script.
// CeX search is loose, so the returned candidates go through the title
// matcher before one is accepted.
type CexSource struct {
	runner *Runner
	script string
	logger *logging.Logger
}

// NewCexSource creates the CeX source.
func NewCexSource(runner *Runner, script string, logger *logging.Logger) *CexSource {
	return &CexSource{
		runner: runner,
		script: script,
		logger: logger,
	}
}

// Name returns the source label.
func (s *CexSource) Name() string { return sources.NameCex }

// Fetch runs the scraper and picks the best-matching listing.
func (s *CexSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	items, err := s.runner.Run(ctx, s.script, sources.SanitizeTitle(q.Title), q.PlatformName)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	idx := match.BestIndex(titles, q.Title)
	if idx < 0 {
		s.logger.Debug("No acceptable CeX match", "title", q.Title, "candidates", len(items))
		return nil, nil
	}
	item := items[idx]

	return &sources.Quote{
		Source:    s.Name(),
		Price:     item.Price.Round(2),
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

package scrape

import (
	"context"
	"time"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/match"
	"gc.dev/game-prices/pkg/pricing/sources"
)

// AmazonSource quotes retail prices from Amazon UK via the scraper script.
// The script normally returns its single best listing; when it returns
// several, the title matcher disambiguates.
type AmazonSource struct {
	runner *Runner
	script string
	logger *logging.Logger
}

// NewAmazonSource creates the Amazon source.
func NewAmazonSource(runner *Runner, script string, logger *logging.Logger) *AmazonSource {
	return &AmazonSource{
		runner: runner,
		script: script,
		logger: logger,
	}
}

// Name returns the source label.
func (s *AmazonSource) Name() string { return sources.NameAmazon }

// Fetch runs the scraper and quotes the returned listing.
func (s *AmazonSource) Fetch(ctx context.Context, q sources.Query) (*sources.Quote, error) {
	items, err := s.runner.Run(ctx, s.script, sources.SanitizeTitle(q.Title), q.PlatformName)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	item := items[0]
	if len(items) > 1 {
		titles := make([]string, len(items))
		for i, it := range items {
			titles[i] = it.Title
		}
		idx := match.BestIndex(titles, q.Title)
		if idx < 0 {
			s.logger.Debug("No acceptable Amazon match", "title", q.Title, "candidates", len(items))
			return nil, nil
		}
		item = items[idx]
	}

	return &sources.Quote{
		Source:    s.Name(),
		Price:     item.Price.Round(2),
		Currency:  sources.CurrencyGBP,
		FetchedAt: time.Now().UTC(),
	}, nil
}

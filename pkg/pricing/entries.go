package pricing

import (
	"strings"

	"gc.dev/game-prices/pkg/config"
	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/currency"
	"gc.dev/game-prices/pkg/pricing/sources"
	"gc.dev/game-prices/pkg/pricing/sources/api"
	"gc.dev/game-prices/pkg/pricing/sources/scrape"
)

// DefaultEntries builds the ordered source table from configuration. The
// list position is both the invocation order and the quote order in
// results. Sources whose credentials or scripts are not configured are
// left out entirely rather than gated with a predicate, so an unconfigured
// source is indistinguishable from one that does not exist.
func DefaultEntries(cfg config.PricingConfig, conv *currency.Converter, logger *logging.Logger) []Entry {
	client := sources.NewHTTPClient(cfg.SourceTimeout.ToDuration())
	runner := scrape.NewRunner(cfg.Sources.Scrape.NodeBin, cfg.Sources.Scrape.Timeout.ToDuration(), logger)

	entries := make([]Entry, 0, 8)

	if key := cfg.Sources.PriceCharting.APIKey; key != "" {
		entries = append(entries, Entry{
			Source: api.NewPriceChartingSource(key, client, conv, logger),
		})
	} else {
		logger.Info("PriceCharting source disabled, no API key configured")
	}

	if id, secret := cfg.Sources.EBay.ClientID, cfg.Sources.EBay.ClientSecret; credentialsUsable(id, secret) {
		entries = append(entries, Entry{
			Source: api.NewEBaySource(id, secret, client, conv, logger),
		})
	} else {
		logger.Info("eBay source disabled, no client credentials configured")
	}

	if script := cfg.Sources.Scrape.CexScript; script != "" {
		entries = append(entries, Entry{
			Source: scrape.NewCexSource(runner, script, logger),
		})
	}
	if script := cfg.Sources.Scrape.AmazonScript; script != "" {
		entries = append(entries, Entry{
			Source: scrape.NewAmazonSource(runner, script, logger),
		})
	}

	entries = append(entries,
		Entry{
			Source:     api.NewPlayStationSource(client, logger),
			Applicable: isPlayStationPlatform,
		},
		Entry{
			Source:     api.NewSteamSource(client, logger),
			Applicable: isSteamQuery,
		},
		Entry{
			Source: api.NewGOGSource(client, logger),
		},
		Entry{
			Source: api.NewCheapSharkSource(client, conv, logger),
		},
	)

	return entries
}

// credentialsUsable rejects missing credentials and the "your_..."
// placeholders that ship in example env files.
func credentialsUsable(id, secret string) bool {
	if id == "" || secret == "" {
		return false
	}
	return !strings.Contains(id, "your_") && !strings.Contains(secret, "your_")
}

// isPlayStationPlatform reports whether the platform hint points at the
// PlayStation family.
func isPlayStationPlatform(q sources.Query) bool {
	name := strings.ToLower(q.PlatformName)
	slug := strings.ToLower(q.PlatformSlug)
	return strings.Contains(name, "playstation") ||
		strings.Contains(name, "ps") ||
		strings.Contains(slug, "ps")
}

// isSteamQuery runs the Steam source for games with a known app id, and
// otherwise only for the generic PC platform where a title search is
// meaningful.
func isSteamQuery(q sources.Query) bool {
	return q.SteamAppID != "" || strings.EqualFold(q.PlatformSlug, "pc")
}

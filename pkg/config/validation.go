package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks configuration for errors.
func Validate(cfg *Config) error {
	if err := validateCacheConfig(&cfg.Cache); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	if err := validatePricingConfig(&cfg.Pricing); err != nil {
		return fmt.Errorf("pricing config: %w", err)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("%w", ErrDatabasePathRequired)
	}
	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func validateCacheConfig(cfg *CacheConfig) error {
	switch cfg.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("%w", ErrRedisAddrRequired)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidCacheBackend, cfg.Backend)
	}

	if cfg.TTL.ToDuration() <= 0 {
		return fmt.Errorf("%w: cache.ttl", ErrInvalidTimeout)
	}
	return nil
}

func validatePricingConfig(cfg *PricingConfig) error {
	if cfg.SourceTimeout.ToDuration() <= 0 {
		return fmt.Errorf("%w: pricing.source_timeout", ErrInvalidTimeout)
	}
	if cfg.AggregationTimeout.ToDuration() <= 0 {
		return fmt.Errorf("%w: pricing.aggregation_timeout", ErrInvalidTimeout)
	}
	if cfg.SourceTimeout.ToDuration() > cfg.AggregationTimeout.ToDuration() {
		return fmt.Errorf("%w", ErrSourceTimeoutTooLarge)
	}

	// Scraper scripts are optional; when configured, the file must exist.
	for _, script := range []string{cfg.Sources.Scrape.CexScript, cfg.Sources.Scrape.AmazonScript} {
		if script == "" {
			continue
		}
		if _, err := os.Stat(script); err != nil {
			return fmt.Errorf("%w: %s", ErrScrapeScriptNotFound, script)
		}
	}
	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, cfg.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, cfg.Format)
	}
	return nil
}

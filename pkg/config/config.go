// Package config provides configuration loading and validation for game-prices.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file with environment variable expansion.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- Path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in YAML
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.HTTP.Addr == "" {
		cfg.Server.HTTP.Addr = ":8080"
	}
	if cfg.Server.RequestTimeout.ToDuration() == 0 {
		cfg.Server.RequestTimeout = Duration(150 * time.Second)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/games.db"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.TTL.ToDuration() == 0 {
		cfg.Cache.TTL = Duration(24 * time.Hour)
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = "game_prices:"
	}

	if cfg.Pricing.SourceTimeout.ToDuration() == 0 {
		cfg.Pricing.SourceTimeout = Duration(30 * time.Second)
	}
	if cfg.Pricing.AggregationTimeout.ToDuration() == 0 {
		cfg.Pricing.AggregationTimeout = Duration(120 * time.Second)
	}
	if cfg.Pricing.Sources.Scrape.NodeBin == "" {
		cfg.Pricing.Sources.Scrape.NodeBin = "node"
	}
	if cfg.Pricing.Sources.Scrape.Timeout.ToDuration() == 0 {
		cfg.Pricing.Sources.Scrape.Timeout = Duration(90 * time.Second)
	}

	if cfg.Refresh.Sleep.ToDuration() == 0 {
		cfg.Refresh.Sleep = Duration(2 * time.Second)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9091"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// Cache backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

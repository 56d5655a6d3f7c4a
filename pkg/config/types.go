package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	HTTP           HTTPConfig `yaml:"http"`
	RequestTimeout Duration   `yaml:"request_timeout"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures the SQLite game store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig configures the aggregation result cache.
type CacheConfig struct {
	Backend string      `yaml:"backend"` // "memory" or "redis"
	TTL     Duration    `yaml:"ttl"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// PricingConfig configures the price aggregation engine.
type PricingConfig struct {
	SourceTimeout      Duration      `yaml:"source_timeout"`      // per-adapter deadline
	AggregationTimeout Duration      `yaml:"aggregation_timeout"` // whole fan-out deadline
	Sources            SourcesConfig `yaml:"sources"`
}

// SourcesConfig holds per-source settings. The source set is closed; each
// source has its own block instead of a generic type/name list.
type SourcesConfig struct {
	PriceCharting PriceChartingConfig `yaml:"pricecharting"`
	EBay          EBayConfig          `yaml:"ebay"`
	Scrape        ScrapeConfig        `yaml:"scrape"`
}

// PriceChartingConfig configures the PriceCharting API source.
type PriceChartingConfig struct {
	APIKey string `yaml:"api_key"`
}

// EBayConfig configures the eBay Browse API source.
type EBayConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// ScrapeConfig configures the headless-browser scraper subprocesses
// backing the CeX and Amazon sources.
type ScrapeConfig struct {
	NodeBin      string   `yaml:"node_bin"`
	CexScript    string   `yaml:"cex_script"`
	AmazonScript string   `yaml:"amazon_script"`
	Timeout      Duration `yaml:"timeout"`
}

// RefreshConfig configures the bulk price refresh mode.
type RefreshConfig struct {
	Sleep Duration `yaml:"sleep"` // pause between games to spare the scrapers
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration is a wrapper around time.Duration for YAML parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

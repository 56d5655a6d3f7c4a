// Package config provides configuration loading and validation for game-prices.
package config

import "errors"

var (
	// ErrInvalidCacheBackend indicates an unknown cache backend.
	ErrInvalidCacheBackend = errors.New("cache backend must be \"memory\" or \"redis\"")
	// ErrRedisAddrRequired indicates that the Redis address is missing.
	ErrRedisAddrRequired = errors.New("cache.redis.addr must be specified for the redis backend")
	// ErrDatabasePathRequired indicates that the database path is missing.
	ErrDatabasePathRequired = errors.New("database.path must be specified")
	// ErrScrapeScriptNotFound indicates that a configured scraper script does not exist.
	ErrScrapeScriptNotFound = errors.New("scraper script not found")
	// ErrInvalidTimeout indicates a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeouts must be positive")
	// ErrSourceTimeoutTooLarge indicates that the per-source timeout exceeds the fan-out deadline.
	ErrSourceTimeoutTooLarge = errors.New("pricing.source_timeout must not exceed pricing.aggregation_timeout")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)

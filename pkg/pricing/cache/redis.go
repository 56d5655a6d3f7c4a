package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

// Redis is a Redis-backed result cache. Expiry is delegated to Redis TTLs.
// Any transport or decode problem degrades to a cache miss; the cache is
// never allowed to fail an aggregation.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *logging.Logger
}

// RedisOptions configures the Redis cache backend.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// NewRedis connects to Redis and returns the cache. The initial ping
// failure is returned so a misconfigured backend is caught at startup.
func NewRedis(ctx context.Context, opts RedisOptions, logger *logging.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return &Redis{
		client:    client,
		ttl:       opts.TTL,
		keyPrefix: opts.KeyPrefix,
		logger:    logger,
	}, nil
}

// Get returns the cached quote list for fingerprint, or a miss.
func (r *Redis) Get(ctx context.Context, fingerprint string) ([]sources.Quote, bool) {
	data, err := r.client.Get(ctx, r.keyPrefix+fingerprint).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Redis cache read failed, treating as miss", "error", err.Error())
		}
		return nil, false
	}

	var quotes []sources.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		r.logger.Warn("Corrupt cache entry, treating as miss", "fingerprint", fingerprint, "error", err.Error())
		return nil, false
	}
	return quotes, true
}

// Put replaces the entry for fingerprint with a fresh TTL.
func (r *Redis) Put(ctx context.Context, fingerprint string, quotes []sources.Quote) {
	data, err := json.Marshal(quotes)
	if err != nil {
		r.logger.Error("Failed to encode quotes for cache", "error", err.Error())
		return
	}
	if err := r.client.Set(ctx, r.keyPrefix+fingerprint, data, r.ttl).Err(); err != nil {
		r.logger.Warn("Redis cache write failed", "error", err.Error())
	}
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

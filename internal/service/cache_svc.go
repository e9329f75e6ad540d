package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/pkg/hash"
)

// DefaultCacheTTL applies when no TTL is configured.
const DefaultCacheTTL = time.Hour

// Cache key prefixes, one per report kind.
const (
	PrefixVideoTrends   = "trends:videos"
	PrefixChannelTrends = "trends:channels"
	PrefixTopics        = "topics"
	PrefixCompare       = "compare"
)

// ReportCache stores encoded analysis reports. Get returns nil data and a
// nil error on a miss.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data any) error
}

// CacheService is a Redis cache-aside layer for analysis reports.
type CacheService struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string, ttl time.Duration, logger zerolog.Logger) *CacheService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &CacheService{ttl: ttl, log: logger.With().Str("component", "cache").Logger()}

	if redisURL == "" {
		c.log.Info().Msg("no redis URL configured, caching disabled")
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		c.log.Warn().Err(err).Msg("invalid redis URL, caching disabled")
		return c
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis connection failed, caching disabled")
		_ = rdb.Close()
		return c
	}

	c.log.Info().Dur("ttl", ttl).Msg("redis connected, caching enabled")
	c.rdb = rdb
	return c
}

// NewCacheServiceWithClient wraps an existing client without pinging it.
func NewCacheServiceWithClient(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CacheService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheService{rdb: rdb, ttl: ttl, log: logger.With().Str("component", "cache").Logger()}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// Enabled reports whether a Redis client is attached.
func (c *CacheService) Enabled() bool {
	return c.rdb != nil
}

// Get retrieves a cached report. Returns nil if not cached or cache is disabled.
func (c *CacheService) Get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Set stores the JSON encoding of data under key for the configured TTL.
func (c *CacheService) Set(ctx context.Context, key string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidatePrefix deletes every report stored under prefix and returns the
// number of keys removed. An empty prefix removes all reports.
func (c *CacheService) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}
	pattern := hash.KeyNamespace + ":*"
	if prefix != "" {
		pattern = hash.KeyNamespace + ":" + prefix + ":*"
	}

	var removed int
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := c.rdb.Del(ctx, batch...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(batch) > 0 {
		n, err := c.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	return removed, nil
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache TTLs. Deal temperatures move fast; analytics can lag slightly.
const (
	DealCacheTTL      = time.Minute
	AnalyticsCacheTTL = 30 * time.Second
)

const analyticsKey = "analytics"

// CacheService provides a Redis cache-aside layer for deal and analytics
// reads.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetDeal retrieves a cached deal response. Returns nil if not cached or the
// cache is disabled.
func (c *CacheService) GetDeal(ctx context.Context, dealID int64) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, dealKey(dealID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetDeal stores a deal response in cache.
func (c *CacheService) SetDeal(ctx context.Context, dealID int64, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dealKey(dealID), b, DealCacheTTL).Err()
}

// InvalidateDeal removes a deal from cache (called after vote or freeze
// changes).
func (c *CacheService) InvalidateDeal(ctx context.Context, dealID int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, dealKey(dealID)).Err()
}

// GetAnalytics retrieves the cached analytics snapshot. Returns nil if not
// cached.
func (c *CacheService) GetAnalytics(ctx context.Context) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, analyticsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetAnalytics stores the analytics snapshot in cache.
func (c *CacheService) SetAnalytics(ctx context.Context, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, analyticsKey, b, AnalyticsCacheTTL).Err()
}

// InvalidateAnalytics removes the analytics snapshot from cache.
func (c *CacheService) InvalidateAnalytics(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, analyticsKey).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func dealKey(dealID int64) string {
	return fmt.Sprintf("deal:%d", dealID)
}

// Package cache provides caching implementations for reference data lookups.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	masterdataapp "github.com/leasedesk/backend/internal/application/masterdata"
	"github.com/leasedesk/backend/internal/infrastructure/config"
)

// DefaultRateTTL is how long a cached exchange rate stays valid
const DefaultRateTTL = 10 * time.Minute

// Ensure RedisRateCache implements RateCache
var _ masterdataapp.RateCache = (*RedisRateCache)(nil)

// RedisRateCache caches exchange rates in Redis. It is suitable for
// distributed deployments where multiple instances share lookups.
type RedisRateCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateCache creates a rate cache from configuration and verifies
// the connection.
func NewRedisRateCache(cfg *config.RedisConfig) (*RedisRateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateCache{
		client:    client,
		keyPrefix: "masterdata:rate:",
	}, nil
}

// NewRedisRateCacheWithClient creates a rate cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisRateCacheWithClient(client *redis.Client, keyPrefix string) *RedisRateCache {
	if keyPrefix == "" {
		keyPrefix = "masterdata:rate:"
	}
	return &RedisRateCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// GetRate returns the cached rate for a currency code. The second return
// value reports whether the code was present in the cache.
func (c *RedisRateCache) GetRate(ctx context.Context, code string) (decimal.Decimal, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to read cached rate: %w", err)
	}

	rate, err := decimal.NewFromString(value)
	if err != nil {
		// A corrupt entry behaves like a miss so callers fall back to the repository
		return decimal.Zero, false, nil
	}
	return rate, true, nil
}

// SetRate stores the rate for a currency code with the given TTL
func (c *RedisRateCache) SetRate(ctx context.Context, code string, rate decimal.Decimal, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	if err := c.client.Set(ctx, c.keyPrefix+code, rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}

// Invalidate drops the cached rate for a currency code
func (c *RedisRateCache) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, c.keyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached rate: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	masterdataapp "github.com/leasedesk/backend/internal/application/masterdata"
)

// rateEntry represents a cached rate with expiration
type rateEntry struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// InMemoryRateCache implements RateCache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]rateEntry
}

// Ensure InMemoryRateCache implements RateCache
var _ masterdataapp.RateCache = (*InMemoryRateCache)(nil)

// NewInMemoryRateCache creates a new in-memory rate cache
func NewInMemoryRateCache() *InMemoryRateCache {
	return &InMemoryRateCache{
		entries: make(map[string]rateEntry),
	}
}

// GetRate returns the cached rate for a currency code. The second return
// value reports whether a live entry was present.
func (c *InMemoryRateCache) GetRate(ctx context.Context, code string) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[code]
	if !exists {
		return decimal.Zero, false, nil
	}
	if time.Now().After(e.expiresAt) {
		return decimal.Zero, false, nil
	}
	return e.rate, true, nil
}

// SetRate stores the rate for a currency code with the given TTL
func (c *InMemoryRateCache) SetRate(ctx context.Context, code string, rate decimal.Decimal, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[code] = rateEntry{
		rate:      rate,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate drops the cached rate for a currency code
func (c *InMemoryRateCache) Invalidate(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, code)
	return nil
}

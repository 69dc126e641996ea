package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateCache_GetSet(t *testing.T) {
	c := NewInMemoryRateCache()
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		rate, found, err := c.GetRate(ctx, "USD")
		require.NoError(t, err)
		assert.False(t, found)
		assert.True(t, rate.IsZero())
	})

	t.Run("hit after set", func(t *testing.T) {
		require.NoError(t, c.SetRate(ctx, "USD", decimal.RequireFromString("3.6725"), time.Minute))

		rate, found, err := c.GetRate(ctx, "USD")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, rate.Equal(decimal.RequireFromString("3.6725")))
	})

	t.Run("expired entry behaves like a miss", func(t *testing.T) {
		require.NoError(t, c.SetRate(ctx, "EUR", decimal.RequireFromString("3.98"), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, found, err := c.GetRate(ctx, "EUR")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInMemoryRateCache_Invalidate(t *testing.T) {
	c := NewInMemoryRateCache()
	ctx := context.Background()

	require.NoError(t, c.SetRate(ctx, "GBP", decimal.RequireFromString("4.65"), time.Minute))
	require.NoError(t, c.Invalidate(ctx, "GBP"))

	_, found, err := c.GetRate(ctx, "GBP")
	require.NoError(t, err)
	assert.False(t, found)

	t.Run("invalidating a missing code is a no-op", func(t *testing.T) {
		assert.NoError(t, c.Invalidate(ctx, "JPY"))
	})
}

func TestInMemoryRateCache_DefaultTTL(t *testing.T) {
	c := NewInMemoryRateCache()
	ctx := context.Background()

	// Zero TTL falls back to the default instead of expiring immediately
	require.NoError(t, c.SetRate(ctx, "INR", decimal.RequireFromString("0.0441"), 0))

	rate, found, err := c.GetRate(ctx, "INR")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.0441")))
}

package quotes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

func TestCache_GetPut_SameEpoch(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	cache := NewCacheWithClock(30*time.Minute, func() time.Time { return now })

	_, ok := cache.Get("AAPL")
	assert.False(t, ok)

	cache.Put(&domain.Quote{Symbol: "AAPL", Price: 185.50, Source: "yahoo"})

	got, ok := cache.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 185.50, got.Price)
	assert.Equal(t, "yahoo", got.Source, "source attribution survives the cache")
}

func TestCache_EpochRollover(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	cache := NewCacheWithClock(30*time.Minute, func() time.Time { return now })

	cache.Put(&domain.Quote{Symbol: "AAPL", Price: 185.50, Source: "yahoo"})

	// Still inside the 10:00-10:30 bucket.
	now = time.Date(2026, 3, 2, 10, 29, 59, 0, time.UTC)
	_, ok := cache.Get("AAPL")
	assert.True(t, ok)

	// Crossing into the next bucket invalidates the entry.
	now = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	_, ok = cache.Get("AAPL")
	assert.False(t, ok)
}

func TestCache_SymbolsAreIndependent(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	cache := NewCacheWithClock(30*time.Minute, func() time.Time { return now })

	cache.Put(&domain.Quote{Symbol: "AAPL", Price: 185.50})
	cache.Put(&domain.Quote{Symbol: "MSFT", Price: 410.00})

	aapl, ok := cache.Get("AAPL")
	require.True(t, ok)
	msft, ok := cache.Get("MSFT")
	require.True(t, ok)

	assert.Equal(t, 185.50, aapl.Price)
	assert.Equal(t, 410.00, msft.Price)
}

func TestCache_SweepDropsStaleEpochs(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	cache := NewCacheWithClock(30*time.Minute, func() time.Time { return now })

	cache.Put(&domain.Quote{Symbol: "AAPL", Price: 185.50})
	cache.Put(&domain.Quote{Symbol: "MSFT", Price: 410.00})
	assert.Equal(t, 2, cache.Len())

	// No stale entries yet.
	assert.Equal(t, 0, cache.Sweep())
	assert.Equal(t, 2, cache.Len())

	now = now.Add(time.Hour)
	cache.Put(&domain.Quote{Symbol: "AAPL", Price: 186.00})

	assert.Equal(t, 2, cache.Sweep())
	assert.Equal(t, 1, cache.Len())

	got, ok := cache.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 186.00, got.Price)
}

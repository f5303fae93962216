package quotes

import (
	"sync"
	"time"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

// Cache is an in-memory quote cache keyed by (symbol, epoch), where the
// epoch is the wall clock truncated to a fixed interval. All lookups
// inside the same epoch are served without a network call, and a hit
// returns the quote with its original source attribution.
//
// Entries are immutable once written - a fresher fetch lands in a newer
// epoch rather than mutating an existing entry - so a plain RWMutex is
// enough for concurrent evaluation workers.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*domain.Quote
	epoch   time.Duration
	now     func() time.Time
}

type cacheKey struct {
	symbol string
	epoch  int64 // unix seconds of the truncated bucket start
}

// NewCache creates a quote cache with the given epoch size.
func NewCache(epoch time.Duration) *Cache {
	return &Cache{
		entries: make(map[cacheKey]*domain.Quote),
		epoch:   epoch,
		now:     time.Now,
	}
}

// NewCacheWithClock creates a cache with a deterministic clock for tests.
func NewCacheWithClock(epoch time.Duration, now func() time.Time) *Cache {
	c := NewCache(epoch)
	c.now = now
	return c
}

func (c *Cache) key(symbol string) cacheKey {
	return cacheKey{
		symbol: symbol,
		epoch:  c.now().Truncate(c.epoch).Unix(),
	}
}

// Get returns the cached quote for the symbol within the current epoch.
func (c *Cache) Get(symbol string) (*domain.Quote, bool) {
	k := c.key(symbol)
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.entries[k]
	return q, ok
}

// Put stores a quote under the current epoch.
func (c *Cache) Put(q *domain.Quote) {
	k := c.key(q.Symbol)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = q
}

// Sweep drops entries from past epochs. Called periodically by the
// scheduler so the map does not grow without bound.
func (c *Cache) Sweep() int {
	current := c.now().Truncate(c.epoch).Unix()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if k.epoch != current {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

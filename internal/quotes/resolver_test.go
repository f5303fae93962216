package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

// mockProvider counts calls and returns a canned quote or error.
type mockProvider struct {
	name  string
	quote *domain.Quote
	err   error
	calls int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Fetch(ctx context.Context, symbol string) (*domain.Quote, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	q := *m.quote
	q.Symbol = symbol
	return &q, nil
}

func newTestResolver(providers []Provider) (*Resolver, *Cache) {
	now := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	cache := NewCacheWithClock(30*time.Minute, func() time.Time { return now })
	r := NewResolver(providers, cache, time.Millisecond, time.Second, zerolog.Nop())
	return r, cache
}

func TestResolver_Resolve_PrimarySuccess(t *testing.T) {
	primary := &mockProvider{name: "yahoo", quote: &domain.Quote{Price: 185.50, Source: "yahoo"}}
	secondary := &mockProvider{name: "finnhub", quote: &domain.Quote{Price: 185.40, Source: "finnhub"}}
	r, _ := newTestResolver([]Provider{primary, secondary})

	q, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "yahoo", q.Source)
	assert.Equal(t, domain.TierPrimary, q.Tier)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "chain stops at the first success")
}

func TestResolver_Resolve_FallsThroughToSecondary(t *testing.T) {
	primary := &mockProvider{name: "yahoo", err: errors.New("connection refused")}
	secondary := &mockProvider{name: "finnhub", quote: &domain.Quote{Price: 185.40, Source: "finnhub"}}
	r, _ := newTestResolver([]Provider{primary, secondary})

	q, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "finnhub", q.Source)
	assert.Equal(t, domain.TierSecondary, q.Tier)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolver_Resolve_RateLimitedProviderSkipped(t *testing.T) {
	primary := &mockProvider{
		name: "yahoo",
		err:  &domain.ProviderError{Provider: "yahoo", RateLimited: true, Err: errors.New("status 429")},
	}
	secondary := &mockProvider{name: "finnhub", quote: &domain.Quote{Price: 185.40, Source: "finnhub"}}
	r, _ := newTestResolver([]Provider{primary, secondary})

	q, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "finnhub", q.Source)
}

func TestResolver_Resolve_AllProvidersFail(t *testing.T) {
	providers := []Provider{
		&mockProvider{name: "yahoo", err: errors.New("timeout")},
		&mockProvider{name: "finnhub", err: errors.New("bad key")},
		&mockProvider{name: "alphavantage", err: &domain.ProviderError{Provider: "alphavantage", RateLimited: true, Err: errors.New("note")}},
		&mockProvider{name: "twelvedata", err: errors.New("timeout")},
	}
	r, _ := newTestResolver(providers)

	q, err := r.Resolve(context.Background(), "ZZZZ")
	assert.Nil(t, q)
	assert.ErrorIs(t, err, domain.ErrNoDataAvailable)
	assert.Contains(t, err.Error(), "ZZZZ")

	for _, p := range providers {
		assert.Equal(t, 1, p.(*mockProvider).calls, "each provider gets exactly one attempt")
	}
}

func TestResolver_Resolve_SecondCallServedFromCache(t *testing.T) {
	primary := &mockProvider{name: "yahoo", quote: &domain.Quote{Price: 185.50, Source: "yahoo"}}
	r, _ := newTestResolver([]Provider{primary})

	first, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls, "same-epoch resolve must not hit the network")
	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Price, second.Price)
}

func TestResolver_Resolve_CacheKeepsOriginalSource(t *testing.T) {
	primary := &mockProvider{name: "yahoo", err: errors.New("down")}
	secondary := &mockProvider{name: "finnhub", quote: &domain.Quote{Price: 185.40, Source: "finnhub"}}
	r, _ := newTestResolver([]Provider{primary, secondary})

	_, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)

	// Primary recovers, but the cached entry keeps its attribution.
	primary.err = nil
	primary.quote = &domain.Quote{Price: 185.50, Source: "yahoo"}

	q, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "finnhub", q.Source)
	assert.Equal(t, domain.TierSecondary, q.Tier)
}

func TestResolver_Resolve_CanceledContext(t *testing.T) {
	primary := &mockProvider{name: "yahoo", quote: &domain.Quote{Price: 185.50, Source: "yahoo"}}
	r, _ := newTestResolver([]Provider{primary})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q, err := r.Resolve(ctx, "AAPL")
	assert.Nil(t, q)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, primary.calls)
}

func TestResolver_Resolve_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	primary := &mockProvider{name: "yahoo", err: errors.New("down")}
	secondary := &mockProvider{name: "finnhub", quote: &domain.Quote{Price: 185.40, Source: "finnhub"}}
	now := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)

	r := NewResolver(
		[]Provider{primary, secondary},
		NewCacheWithClock(30*time.Minute, func() time.Time {
			now = now.Add(time.Hour) // force a fresh epoch per lookup
			return now
		}),
		time.Millisecond,
		time.Second,
		zerolog.Nop(),
	)

	for i := 0; i < 5; i++ {
		_, err := r.Resolve(context.Background(), "AAPL")
		require.NoError(t, err)
	}

	// The breaker trips after three consecutive failures and stops
	// forwarding attempts to the failing provider.
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 5, secondary.calls)
}

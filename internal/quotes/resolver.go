package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

// Resolver fetches quotes through an ordered chain of providers.
//
// Policy: providers are tried strictly in priority order, one attempt
// each; a provider failure is logged and the next provider is tried.
// Only when every provider has failed does resolution fail, with
// domain.ErrNoDataAvailable. There is never a hardcoded fallback price -
// the caller must skip the instrument instead.
type Resolver struct {
	providers    []Provider
	cache        *Cache
	limiter      *rate.Limiter
	breakers     map[string]*gobreaker.CircuitBreaker
	fetchTimeout time.Duration
	log          zerolog.Logger
}

// NewResolver creates a resolver over the given providers, in priority
// order. minCallDelay separates consecutive provider calls (shared
// across symbols, so sequential batch evaluation cannot burst a
// provider); fetchTimeout bounds each individual fetch.
func NewResolver(
	providers []Provider,
	cache *Cache,
	minCallDelay time.Duration,
	fetchTimeout time.Duration,
	log zerolog.Logger,
) *Resolver {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(providers))
	for _, p := range providers {
		breakers[p.Name()] = newProviderBreaker(p.Name())
	}

	return &Resolver{
		providers:    providers,
		cache:        cache,
		limiter:      rate.NewLimiter(rate.Every(minCallDelay), 1),
		breakers:     breakers,
		fetchTimeout: fetchTimeout,
		log:          log.With().Str("module", "quotes").Logger(),
	}
}

// Resolve returns a quote for the symbol, served from cache when the
// current epoch already holds one. Cache hits keep their original source
// attribution - it is never rewritten to a different provider.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (*domain.Quote, error) {
	if q, ok := r.cache.Get(symbol); ok {
		r.log.Debug().
			Str("symbol", symbol).
			Str("source", q.Source).
			Msg("Cache hit")
		return q, nil
	}

	for i, p := range r.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		q, err := r.fetchOne(ctx, p, symbol)
		if err != nil {
			var provErr *domain.ProviderError
			if errors.As(err, &provErr) && provErr.RateLimited {
				r.log.Warn().
					Str("symbol", symbol).
					Str("provider", p.Name()).
					Msg("Provider rate limited, falling through")
			} else {
				r.log.Warn().
					Err(err).
					Str("symbol", symbol).
					Str("provider", p.Name()).
					Msg("Provider failed, falling through")
			}
			continue
		}

		// The chain position decides the quote's reliability tier.
		tiered := *q
		if i == 0 {
			tiered.Tier = domain.TierPrimary
		} else {
			tiered.Tier = domain.TierSecondary
		}

		r.cache.Put(&tiered)
		r.log.Info().
			Str("symbol", symbol).
			Str("source", tiered.Source).
			Float64("price", tiered.Price).
			Msg("Resolved quote")
		return &tiered, nil
	}

	return nil, fmt.Errorf("resolve %s: %w", symbol, domain.ErrNoDataAvailable)
}

// fetchOne runs a single provider attempt through its circuit breaker
// with a bounded deadline.
func (r *Resolver) fetchOne(ctx context.Context, p Provider, symbol string) (*domain.Quote, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	result, err := r.breakers[p.Name()].Execute(func() (interface{}, error) {
		return p.Fetch(fetchCtx, symbol)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewProviderError(p.Name(), err)
		}
		return nil, err
	}
	return result.(*domain.Quote), nil
}

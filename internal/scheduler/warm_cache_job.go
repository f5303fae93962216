package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/quotes"
)

// WarmCacheJob keeps the quote cache hot for the configured universe so
// interactive requests inside the same cache epoch are served without
// network calls. Individual symbol failures are logged and skipped -
// the next scheduled run retries them in a fresh epoch.
type WarmCacheJob struct {
	resolver *quotes.Resolver
	cache    *quotes.Cache
	universe []string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewWarmCacheJob creates the cache warm job.
func NewWarmCacheJob(
	resolver *quotes.Resolver,
	cache *quotes.Cache,
	universe []string,
	log zerolog.Logger,
) *WarmCacheJob {
	return &WarmCacheJob{
		resolver: resolver,
		cache:    cache,
		universe: universe,
		timeout:  5 * time.Minute,
		log:      log.With().Str("job", "warm_cache").Logger(),
	}
}

// Name identifies the job in scheduler logs.
func (j *WarmCacheJob) Name() string { return "warm_cache" }

// Run sweeps expired cache entries and resolves every universe symbol.
func (j *WarmCacheJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	swept := j.cache.Sweep()
	if swept > 0 {
		j.log.Debug().Int("swept", swept).Msg("Dropped expired cache entries")
	}

	warmed := 0
	for _, symbol := range j.universe {
		if ctx.Err() != nil {
			break
		}
		if _, err := j.resolver.Resolve(ctx, symbol); err != nil {
			j.log.Warn().Err(err).Str("symbol", symbol).Msg("Warm fetch failed")
			continue
		}
		warmed++
	}

	j.log.Info().
		Int("warmed", warmed).
		Int("universe", len(j.universe)).
		Msg("Cache warm complete")

	return nil
}

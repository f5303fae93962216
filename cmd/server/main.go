// Package main is the entry point for the options analytics service.
// It wires the quote resolution chain, the pricing and projection
// pipeline, the recommendation engine, the cache warm scheduler, and
// the HTTP API, then runs until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amaddali82/stocks.ai/internal/clients/alphavantage"
	"github.com/amaddali82/stocks.ai/internal/clients/finnhub"
	"github.com/amaddali82/stocks.ai/internal/clients/twelvedata"
	"github.com/amaddali82/stocks.ai/internal/clients/yahoo"
	"github.com/amaddali82/stocks.ai/internal/config"
	"github.com/amaddali82/stocks.ai/internal/engine"
	"github.com/amaddali82/stocks.ai/internal/quotes"
	"github.com/amaddali82/stocks.ai/internal/scheduler"
	"github.com/amaddali82/stocks.ai/internal/server"
	"github.com/amaddali82/stocks.ai/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting options analytics service")

	// Quote providers in priority order. Yahoo is always present; keyed
	// providers join the chain only when configured.
	providers := []quotes.Provider{yahoo.NewClient(log)}
	if cfg.FinnhubKey != "" {
		providers = append(providers, finnhub.NewClient(cfg.FinnhubKey, log))
	}
	if cfg.AlphaVantageKey != "" {
		providers = append(providers, alphavantage.NewClient(cfg.AlphaVantageKey, log))
	}
	if cfg.TwelveDataKey != "" {
		providers = append(providers, twelvedata.NewClient(cfg.TwelveDataKey, log))
	}
	log.Info().Int("providers", len(providers)).Msg("Quote chain configured")

	cache := quotes.NewCache(cfg.Resolver.CacheEpoch)
	resolver := quotes.NewResolver(
		providers,
		cache,
		cfg.Resolver.MinCallDelay,
		cfg.Resolver.FetchTimeout,
		log,
	)

	eng := engine.New(resolver, cfg.Thresholds, cfg.Resolver.WorkerCount, log)
	universe := server.UniverseFromConfig(cfg)

	// Background cache warming keeps interactive requests off the
	// provider network inside each cache epoch.
	sched := scheduler.New(log)
	if cfg.Resolver.WarmSchedule != "" {
		warmJob := scheduler.NewWarmCacheJob(resolver, cache, cfg.Universe, log)
		if err := sched.AddJob(cfg.Resolver.WarmSchedule, warmJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register cache warm job")
		}
	}
	sched.Start()

	srv := server.New(server.Config{
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Log:      log,
		Engine:   eng,
		Universe: universe,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

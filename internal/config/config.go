// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel string
	Port     int
	DevMode  bool

	// Quote provider API keys. Yahoo needs none; the rest are optional -
	// a provider without a key is skipped during resolution.
	FinnhubKey      string
	AlphaVantageKey string
	TwelveDataKey   string

	// Universe is the default instrument list evaluated by the scheduled
	// warm job and by requests that do not supply their own symbols.
	Universe []string

	Resolver   ResolverConfig
	Thresholds Thresholds
}

// ResolverConfig tunes the quote resolution layer.
type ResolverConfig struct {
	CacheEpoch   time.Duration // wall-clock bucket size for the quote cache
	MinCallDelay time.Duration // minimum delay between consecutive provider calls
	FetchTimeout time.Duration // per-provider fetch deadline
	WarmSchedule string        // cron spec for the cache warm job, empty disables
	WorkerCount  int           // bounded parallelism for batch evaluation
}

// Thresholds holds the tunable constants of the projector and classifier.
// They are configuration, not magic numbers - the algorithm structure
// never changes with them.
type Thresholds struct {
	// Target projector
	BaseConfidencePrimary   float64 // base confidence for primary-source quotes
	BaseConfidenceSecondary float64 // base confidence for secondary-source quotes
	AggressiveCap           float64 // hard cap on the aggressive target's confidence

	// Risk tiers
	VolatilityMediumIV float64 // IV above this is at least MEDIUM risk
	VolatilityHighIV   float64 // IV above this is HIGH risk
	TimeHighDays       int     // fewer days than this is HIGH risk
	TimeMediumDays     int     // fewer days than this is at least MEDIUM risk
	LiquidityLowOI     int64   // open interest at or below this is HIGH risk
	LiquidityLowVolume int64   // volume at or below this is HIGH risk
	LiquidityGoodOI    int64   // open interest above this (with good volume) is LOW risk
	LiquidityGoodVol   int64   // volume above this (with good OI) is LOW risk

	// Recommendation bands
	StrongBuyConfidence float64
	BuyConfidence       float64
	HoldConfidence      float64

	// Pricing inputs
	RiskFreeRate      float64
	DefaultVolatility float64 // used when no price history is available
	ExpiryWindowMin   int     // days
	ExpiryWindowMax   int     // days
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnvAsInt("PORT", 8004),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		FinnhubKey:      getEnv("FINNHUB_KEY", ""),
		AlphaVantageKey: getEnv("ALPHA_VANTAGE_KEY", ""),
		TwelveDataKey:   getEnv("TWELVEDATA_KEY", ""),
		Universe:        getEnvAsList("UNIVERSE", []string{"AAPL", "MSFT", "GOOGL", "NVDA", "AMZN"}),
		Resolver: ResolverConfig{
			CacheEpoch:   getEnvAsDuration("QUOTE_CACHE_EPOCH", 30*time.Minute),
			MinCallDelay: getEnvAsDuration("PROVIDER_MIN_DELAY", 500*time.Millisecond),
			FetchTimeout: getEnvAsDuration("PROVIDER_FETCH_TIMEOUT", 12*time.Second),
			WarmSchedule: getEnv("CACHE_WARM_SCHEDULE", "*/30 * * * *"),
			WorkerCount:  getEnvAsInt("ENGINE_WORKERS", 4),
		},
		Thresholds: Thresholds{
			BaseConfidencePrimary:   getEnvAsFloat("CONF_BASE_PRIMARY", 0.90),
			BaseConfidenceSecondary: getEnvAsFloat("CONF_BASE_SECONDARY", 0.84),
			AggressiveCap:           getEnvAsFloat("CONF_AGGRESSIVE_CAP", 0.70),
			VolatilityMediumIV:      getEnvAsFloat("RISK_IV_MEDIUM", 0.25),
			VolatilityHighIV:        getEnvAsFloat("RISK_IV_HIGH", 0.35),
			TimeHighDays:            getEnvAsInt("RISK_DAYS_HIGH", 14),
			TimeMediumDays:          getEnvAsInt("RISK_DAYS_MEDIUM", 45),
			LiquidityLowOI:          int64(getEnvAsInt("RISK_OI_LOW", 500)),
			LiquidityLowVolume:      int64(getEnvAsInt("RISK_VOLUME_LOW", 20)),
			LiquidityGoodOI:         int64(getEnvAsInt("RISK_OI_GOOD", 1000)),
			LiquidityGoodVol:        int64(getEnvAsInt("RISK_VOLUME_GOOD", 100)),
			StrongBuyConfidence:     getEnvAsFloat("LABEL_STRONG_BUY", 0.80),
			BuyConfidence:           getEnvAsFloat("LABEL_BUY", 0.70),
			HoldConfidence:          getEnvAsFloat("LABEL_HOLD", 0.60),
			RiskFreeRate:            getEnvAsFloat("RISK_FREE_RATE", 0.05),
			DefaultVolatility:       getEnvAsFloat("DEFAULT_VOLATILITY", 0.30),
			ExpiryWindowMin:         getEnvAsInt("EXPIRY_WINDOW_MIN", 14),
			ExpiryWindowMax:         getEnvAsInt("EXPIRY_WINDOW_MAX", 90),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Resolver.CacheEpoch <= 0 {
		return fmt.Errorf("quote cache epoch must be positive, got %s", c.Resolver.CacheEpoch)
	}
	if c.Thresholds.ExpiryWindowMin >= c.Thresholds.ExpiryWindowMax {
		return fmt.Errorf("expiry window min (%d) must be below max (%d)",
			c.Thresholds.ExpiryWindowMin, c.Thresholds.ExpiryWindowMax)
	}
	if c.Thresholds.VolatilityMediumIV >= c.Thresholds.VolatilityHighIV {
		return fmt.Errorf("volatility risk bands out of order")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

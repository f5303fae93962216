// Package finnhub provides quote fetching from finnhub.io
// (free tier: 60 calls/minute, API key required).
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

const providerName = "finnhub"

// Client for the finnhub.io quote endpoint
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Finnhub client. An empty API key is allowed;
// Fetch will fail fast so the resolver moves on to the next provider.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://finnhub.io/api/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", providerName).Logger(),
	}
}

// Name identifies this provider in quote attribution and logs.
func (c *Client) Name() string { return providerName }

// Fetch retrieves the current quote for a symbol.
// NSE symbols ("RELIANCE.NS") are rewritten to Finnhub's "NSE:RELIANCE" form.
func (c *Client) Fetch(ctx context.Context, symbol string) (*domain.Quote, error) {
	if c.apiKey == "" {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no API key configured"))
	}

	apiSymbol := symbol
	if strings.HasSuffix(symbol, ".NS") {
		apiSymbol = "NSE:" + strings.TrimSuffix(symbol, ".NS")
	}

	url := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, apiSymbol, c.apiKey)
	c.log.Debug().Str("symbol", symbol).Msg("Fetching quote")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewProviderError(providerName, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.NewProviderError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &domain.ProviderError{
			Provider:    providerName,
			RateLimited: true,
			Err:         fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed struct {
		Current   float64 `json:"c"`
		Timestamp int64   `json:"t"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("failed to parse response: %w", err))
	}
	if parsed.Current <= 0 {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no usable price for %s", symbol))
	}

	asOf := time.Now()
	if parsed.Timestamp > 0 {
		asOf = time.Unix(parsed.Timestamp, 0)
	}

	return &domain.Quote{
		Symbol: symbol,
		Price:  parsed.Current,
		AsOf:   asOf,
		Source: providerName,
	}, nil
}

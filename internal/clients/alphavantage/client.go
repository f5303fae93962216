// Package alphavantage provides quote fetching from alphavantage.co
// (free tier: 5 calls/minute, 500/day).
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

const providerName = "alphavantage"

// Client for the Alpha Vantage GLOBAL_QUOTE endpoint
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://www.alphavantage.co/query",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", providerName).Logger(),
	}
}

// Name identifies this provider in quote attribution and logs.
func (c *Client) Name() string { return providerName }

// globalQuote uses Alpha Vantage's numbered field names.
type globalQuote struct {
	GlobalQuote struct {
		Price  string `json:"05. price"`
		Volume string `json:"06. volume"`
	} `json:"Global Quote"`
	Note string `json:"Note"` // set when the free-tier rate limit is hit
}

// Fetch retrieves the current quote for a symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (*domain.Quote, error) {
	if c.apiKey == "" || c.apiKey == "demo" {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no API key configured"))
	}

	url := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", c.baseURL, symbol, c.apiKey)
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

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed globalQuote
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("failed to parse response: %w", err))
	}
	// Alpha Vantage signals rate limiting with a 200 + "Note" body.
	if parsed.Note != "" {
		return nil, &domain.ProviderError{
			Provider:    providerName,
			RateLimited: true,
			Err:         fmt.Errorf("rate limit note in response"),
		}
	}

	price, err := strconv.ParseFloat(parsed.GlobalQuote.Price, 64)
	if err != nil || price <= 0 {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no usable price for %s", symbol))
	}

	var volume int64
	if v, err := strconv.ParseInt(parsed.GlobalQuote.Volume, 10, 64); err == nil {
		volume = v
	}

	return &domain.Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   time.Now(),
		Source: providerName,
		Volume: volume,
	}, nil
}

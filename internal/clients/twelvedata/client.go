// Package twelvedata provides quote fetching from twelvedata.com
// (free tier: 8 calls/minute, 800/day).
package twelvedata

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

const providerName = "twelvedata"

// Client for the Twelve Data price endpoint
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Twelve Data client
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://api.twelvedata.com",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", providerName).Logger(),
	}
}

// Name identifies this provider in quote attribution and logs.
func (c *Client) Name() string { return providerName }

// Fetch retrieves the current price for a symbol. Twelve Data's price
// endpoint returns only the price - no volume or history.
func (c *Client) Fetch(ctx context.Context, symbol string) (*domain.Quote, error) {
	if c.apiKey == "" {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no API key configured"))
	}

	url := fmt.Sprintf("%s/price?symbol=%s&apikey=%s", c.baseURL, symbol, c.apiKey)
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
		Price string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("failed to parse response: %w", err))
	}

	price, err := strconv.ParseFloat(parsed.Price, 64)
	if err != nil || price <= 0 {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no usable price for %s", symbol))
	}

	return &domain.Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   time.Now(),
		Source: providerName,
	}, nil
}

// Package yahoo provides quote fetching from the Yahoo Finance chart API.
// It is the primary provider: free, no API key, and it returns enough
// daily history to estimate historical volatility.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

const providerName = "yahoo"

// Client for the Yahoo Finance v8 chart endpoint
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", providerName).Logger(),
	}
}

// Name identifies this provider in quote attribution and logs.
func (c *Client) Name() string { return providerName }

// chartResponse mirrors the fields we use from the v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves the current quote plus ~3 months of daily closes.
func (c *Client) Fetch(ctx context.Context, symbol string) (*domain.Quote, error) {
	url := fmt.Sprintf("%s/%s?range=3mo&interval=1d", c.baseURL, symbol)
	c.log.Debug().Str("symbol", symbol).Msg("Fetching quote")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewProviderError(providerName, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

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

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("failed to parse response: %w", err))
	}
	if parsed.Chart.Error != nil {
		return nil, domain.NewProviderError(providerName,
			fmt.Errorf("%s: %s", parsed.Chart.Error.Code, parsed.Chart.Error.Description))
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("empty result for %s", symbol))
	}

	result := parsed.Chart.Result[0]
	price := result.Meta.RegularMarketPrice
	if price <= 0 {
		return nil, domain.NewProviderError(providerName, fmt.Errorf("no usable price for %s", symbol))
	}

	var closes []float64
	var volume int64
	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		for _, cl := range q.Close {
			if cl > 0 {
				closes = append(closes, cl)
			}
		}
		if n := len(q.Volume); n > 0 {
			volume = q.Volume[n-1]
		}
	}

	asOf := time.Now()
	if result.Meta.RegularMarketTime > 0 {
		asOf = time.Unix(result.Meta.RegularMarketTime, 0)
	}

	return &domain.Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   asOf,
		Source: providerName,
		Volume: volume,
		Closes: closes,
	}, nil
}

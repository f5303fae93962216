// Package quotes implements resilient quote resolution: an ordered chain
// of interchangeable data providers with epoch caching, pacing, and
// per-provider circuit breaking.
package quotes

import (
	"context"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

// Provider is a single quote data source. Implementations live under
// internal/clients; each failure must be a *domain.ProviderError so the
// resolver can fall through to the next provider.
type Provider interface {
	// Name identifies the provider in logs and quote attribution.
	Name() string
	// Fetch retrieves a current quote for the symbol.
	Fetch(ctx context.Context, symbol string) (*domain.Quote, error)
}

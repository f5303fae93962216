package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the analytics pipeline.
//
// ProviderError stays inside the quote resolver (it falls through to the
// next provider). ErrNoDataAvailable and ErrInvalidContract surface to the
// engine, which skips the symbol. ErrEmptyUniverseResult is the only error
// that propagates to the caller of Recommend.
var (
	ErrNoDataAvailable     = errors.New("no data available: all providers exhausted")
	ErrInvalidContract     = errors.New("invalid contract inputs")
	ErrEmptyUniverseResult = errors.New("no symbols in the universe could be evaluated")
)

// ProviderError wraps a single data provider failure (network, auth,
// rate limit). It is recovered locally by the resolver and never surfaced
// past it.
type ProviderError struct {
	Provider    string
	RateLimited bool
	Err         error
}

func (e *ProviderError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("provider %s rate limited: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a failure of the named provider.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

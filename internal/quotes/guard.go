package quotes

import (
	"time"

	"github.com/sony/gobreaker"
)

// newProviderBreaker builds the circuit breaker wrapped around each
// provider. Three consecutive failures open the circuit; after a minute
// the breaker lets a probe call through. While open, the resolver skips
// the provider immediately instead of burning its rate budget.
func newProviderBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	return gobreaker.NewCircuitBreaker(st)
}

// Package volatility estimates annualized volatility from daily closing
// prices. The engine uses it in place of chain-implied volatility, which
// the core's quote feed does not carry.
package volatility

import (
	"math"

	"github.com/markcheno/go-talib"
)

const (
	// minSamples is the fewest daily closes that give a usable estimate.
	minSamples = 20

	tradingDaysPerYear = 252

	// Clamp bounds keep a thin history from producing a degenerate
	// volatility that would break pricing.
	floorVol = 0.05
	capVol   = 2.0
)

// Estimate returns annualized historical volatility from daily closes
// (oldest first): stddev of daily log returns scaled by sqrt(252),
// clamped to [0.05, 2.0]. When the history is too thin it returns the
// fallback unchanged.
func Estimate(closes []float64, fallback float64) float64 {
	if len(closes) < minSamples {
		return fallback
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < minSamples-1 {
		return fallback
	}

	// talib.StdDev over the full window; the last element holds the
	// standard deviation of the whole series.
	stddev := talib.StdDev(returns, len(returns), 1.0)
	daily := stddev[len(stddev)-1]
	if daily <= 0 || math.IsNaN(daily) {
		return fallback
	}

	annual := daily * math.Sqrt(tradingDaysPerYear)
	if annual < floorVol {
		return floorVol
	}
	if annual > capVol {
		return capVol
	}
	return annual
}

// Package pricing computes theoretical option values and Greeks using
// the Black-Scholes closed-form model. European-style exercise is
// assumed and applied as an approximation for American-style contracts.
package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

// stdNormal is the standard normal distribution used for N and N'.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Input holds the pricing model inputs. TimeToExpiry is in years.
type Input struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64
	Volatility   float64
	RiskFreeRate float64
	Type         domain.OptionType
}

// Price returns the theoretical option value and its Greeks.
//
// Conventions: theta is reported per calendar day (annual derivative
// divided by 365); vega and rho are per one percentage point move
// (divided by 100). No rounding is applied - formatting is a
// presentation concern.
//
// Expired contracts (T <= 0) and non-positive volatility are caller
// errors and fail with domain.ErrInvalidContract.
func Price(in Input) (float64, domain.Greeks, error) {
	var zero domain.Greeks

	if in.TimeToExpiry <= 0 {
		return 0, zero, fmt.Errorf("%w: contract expired (T=%.4f)", domain.ErrInvalidContract, in.TimeToExpiry)
	}
	if in.Volatility <= 0 {
		return 0, zero, fmt.Errorf("%w: non-positive volatility (%.4f)", domain.ErrInvalidContract, in.Volatility)
	}
	if in.Spot <= 0 || in.Strike <= 0 {
		return 0, zero, fmt.Errorf("%w: non-positive spot or strike", domain.ErrInvalidContract)
	}

	sqrtT := math.Sqrt(in.TimeToExpiry)
	d1 := (math.Log(in.Spot/in.Strike) + (in.RiskFreeRate+0.5*in.Volatility*in.Volatility)*in.TimeToExpiry) /
		(in.Volatility * sqrtT)
	d2 := d1 - in.Volatility*sqrtT

	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)
	nd1 := stdNormal.CDF(d1)
	nd2 := stdNormal.CDF(d2)
	pdf1 := stdNormal.Prob(d1)

	var value, delta, thetaAnnual, rho float64
	switch in.Type {
	case domain.Call:
		value = in.Spot*nd1 - in.Strike*discount*nd2
		delta = nd1
		thetaAnnual = -(in.Spot*pdf1*in.Volatility)/(2*sqrtT) -
			in.RiskFreeRate*in.Strike*discount*nd2
		rho = in.Strike * in.TimeToExpiry * discount * nd2 / 100
	case domain.Put:
		value = in.Strike*discount*stdNormal.CDF(-d2) - in.Spot*stdNormal.CDF(-d1)
		delta = nd1 - 1
		thetaAnnual = -(in.Spot*pdf1*in.Volatility)/(2*sqrtT) +
			in.RiskFreeRate*in.Strike*discount*stdNormal.CDF(-d2)
		rho = -in.Strike * in.TimeToExpiry * discount * stdNormal.CDF(-d2) / 100
	default:
		return 0, zero, fmt.Errorf("%w: unknown option type %q", domain.ErrInvalidContract, in.Type)
	}

	// Discounting can push a deep out-of-the-money value a hair below
	// zero in floating point.
	if value < 0 {
		value = 0
	}

	greeks := domain.Greeks{
		Delta: delta,
		Gamma: pdf1 / (in.Spot * in.Volatility * sqrtT),
		Theta: thetaAnnual / 365,
		Vega:  in.Spot * pdf1 * sqrtT / 100,
		Rho:   rho,
	}

	return value, greeks, nil
}

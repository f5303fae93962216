// Package classify maps aggregate confidence and risk indicators to a
// recommendation label and a risk tier. This is a deterministic lookup,
// not a trained model: identical inputs always produce identical output.
package classify

import (
	"github.com/amaddali82/stocks.ai/internal/config"
	"github.com/amaddali82/stocks.ai/internal/domain"
)

// Inputs are the risk indicators for one contract.
type Inputs struct {
	OverallConfidence float64
	ImpliedVolatility float64
	DaysToExpiry      int
	OpenInterest      int64
	Volume            int64
}

// Classifier buckets contracts using the configured thresholds.
type Classifier struct {
	cfg config.Thresholds
}

// New creates a classifier.
func New(cfg config.Thresholds) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the recommendation label and risk tier.
//
// Risk sub-scores are computed independently and combined by taking the
// maximum - the worst indicator dominates. Labels are checked in order,
// first match wins.
func (c *Classifier) Classify(in Inputs) (domain.Label, domain.RiskLevel) {
	risk := c.volatilityRisk(in.ImpliedVolatility)
	risk = domain.MaxRisk(risk, c.timeRisk(in.DaysToExpiry))
	risk = domain.MaxRisk(risk, c.liquidityRisk(in.OpenInterest, in.Volume))

	switch {
	case in.OverallConfidence >= c.cfg.StrongBuyConfidence && risk <= domain.RiskMedium:
		return domain.StrongBuy, risk
	case in.OverallConfidence >= c.cfg.BuyConfidence:
		return domain.Buy, risk
	case in.OverallConfidence >= c.cfg.HoldConfidence:
		return domain.Hold, risk
	default:
		return domain.Avoid, risk
	}
}

func (c *Classifier) volatilityRisk(iv float64) domain.RiskLevel {
	switch {
	case iv > c.cfg.VolatilityHighIV:
		return domain.RiskHigh
	case iv >= c.cfg.VolatilityMediumIV:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func (c *Classifier) timeRisk(days int) domain.RiskLevel {
	switch {
	case days < c.cfg.TimeHighDays:
		return domain.RiskHigh
	case days <= c.cfg.TimeMediumDays:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func (c *Classifier) liquidityRisk(openInterest, volume int64) domain.RiskLevel {
	switch {
	case openInterest <= c.cfg.LiquidityLowOI || volume <= c.cfg.LiquidityLowVolume:
		return domain.RiskHigh
	case openInterest > c.cfg.LiquidityGoodOI && volume > c.cfg.LiquidityGoodVol:
		return domain.RiskLow
	default:
		return domain.RiskMedium
	}
}

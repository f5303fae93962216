// Package targets derives three forward price targets with confidence
// levels from volatility-scaled price dispersion.
package targets

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/config"
	"github.com/amaddali82/stocks.ai/internal/domain"
)

// Sigma multiples for the conservative / moderate / aggressive targets.
const (
	conservativeSigma = 1.0
	moderateSigma     = 1.5
	aggressiveSigma   = 2.2
)

// Confidence multipliers applied to the source-tier base before time decay.
const (
	moderateMultiplier   = 0.95
	aggressiveMultiplier = 0.70
)

// confidenceEpsilon separates consecutive target confidences when the
// monotonicity clamp kicks in.
const confidenceEpsilon = 0.01

// Projector turns a priced contract into three targets. All tunables
// come from config so they can be adjusted without touching the
// algorithm.
type Projector struct {
	cfg config.Thresholds
	log zerolog.Logger
}

// NewProjector creates a target projector.
func NewProjector(cfg config.Thresholds, log zerolog.Logger) *Projector {
	return &Projector{
		cfg: cfg,
		log: log.With().Str("module", "targets").Logger(),
	}
}

// Project computes the three price targets for a contract.
//
// The expected move over the remaining life is spot * vol * sqrt(T).
// Targets sit at 1.0 / 1.5 / 2.2 standard deviations of that move, above
// spot for calls and below for puts. Confidence starts from a base tied
// to the quote's source tier, is scaled per target, decayed by time to
// expiry, and finally clamped so it never increases from target 1 to 3.
func (p *Projector) Project(
	quote *domain.Quote,
	contract *domain.OptionContract,
	vol float64,
	now time.Time,
) [3]domain.PriceTarget {
	days := contract.DaysToExpiry(now)
	years := float64(days) / 365.0
	expectedMove := quote.Price * vol * math.Sqrt(years)

	direction := 1.0
	if contract.Type == domain.Put {
		direction = -1.0
	}

	base := p.cfg.BaseConfidenceSecondary
	if quote.Tier == domain.TierPrimary {
		base = p.cfg.BaseConfidencePrimary
	}

	// Near expiry there is less room for the move to play out.
	timeFactor := math.Max(0.85, 1.0-float64(days)/500.0)

	conf1 := base * timeFactor
	conf2 := base * moderateMultiplier * timeFactor
	conf3 := math.Min(base*aggressiveMultiplier*timeFactor, p.cfg.AggressiveCap)

	// Enforce conf1 >= conf2 >= conf3 after all adjustments.
	conf2 = math.Min(conf2, conf1-confidenceEpsilon)
	conf3 = math.Min(conf3, conf2-confidenceEpsilon)
	conf2 = math.Max(conf2, 0)
	conf3 = math.Max(conf3, 0)

	out := [3]domain.PriceTarget{
		{Level: 1, TargetPrice: quote.Price + direction*conservativeSigma*expectedMove, Confidence: conf1},
		{Level: 2, TargetPrice: quote.Price + direction*moderateSigma*expectedMove, Confidence: conf2},
		{Level: 3, TargetPrice: quote.Price + direction*aggressiveSigma*expectedMove, Confidence: conf3},
	}

	p.log.Debug().
		Str("symbol", contract.Symbol).
		Str("type", string(contract.Type)).
		Float64("expected_move", expectedMove).
		Float64("conf1", conf1).
		Float64("conf3", conf3).
		Msg("Projected targets")

	return out
}

// OverallConfidence aggregates the three target confidences with fixed
// 0.5 / 0.3 / 0.2 weights - the conservative target dominates because it
// is the one most likely to be reached before expiry.
func OverallConfidence(targets [3]domain.PriceTarget) float64 {
	return 0.5*targets[0].Confidence + 0.3*targets[1].Confidence + 0.2*targets[2].Confidence
}

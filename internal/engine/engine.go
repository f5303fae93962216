// Package engine orchestrates the analytics pipeline: quote resolution,
// pricing, target projection, and classification, producing a ranked
// list of option recommendations per request.
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/classify"
	"github.com/amaddali82/stocks.ai/internal/config"
	"github.com/amaddali82/stocks.ai/internal/domain"
	"github.com/amaddali82/stocks.ai/internal/pricing"
	"github.com/amaddali82/stocks.ai/internal/targets"
	"github.com/amaddali82/stocks.ai/internal/volatility"
)

// defaultLimit bounds the result size when the caller does not set one.
const defaultLimit = 20

// QuoteResolver is the engine's view of the quote layer.
type QuoteResolver interface {
	Resolve(ctx context.Context, symbol string) (*domain.Quote, error)
}

// BatchResult is the output of one Recommend call: ranked
// recommendations plus one diagnostic per skipped symbol.
type BatchResult struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Skipped         []domain.SkipDiagnostic `json:"skipped"`
}

// Engine composes the pipeline components. It owns the full lifecycle
// of every Recommendation it produces; no component below it retains
// references across requests.
type Engine struct {
	resolver   QuoteResolver
	projector  *targets.Projector
	classifier *classify.Classifier
	cfg        config.Thresholds
	pool       *workerPool
	log        zerolog.Logger
	now        func() time.Time
}

// New creates an analytics engine.
func New(
	resolver QuoteResolver,
	cfg config.Thresholds,
	workers int,
	log zerolog.Logger,
) *Engine {
	l := log.With().Str("module", "engine").Logger()
	return &Engine{
		resolver:   resolver,
		projector:  targets.NewProjector(cfg, l),
		classifier: classify.New(cfg),
		cfg:        cfg,
		pool:       newWorkerPool(workers),
		log:        l,
		now:        time.Now,
	}
}

// WithClock overrides the engine clock. Tests use this for
// deterministic expiry selection.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Recommend evaluates the universe and returns ranked recommendations.
//
// A single symbol's failure (quote resolution, invalid contract) never
// aborts the batch - it is recorded as a skip diagnostic. The call
// fails with domain.ErrEmptyUniverseResult only when not one symbol
// could be evaluated.
func (e *Engine) Recommend(
	ctx context.Context,
	universe []domain.Instrument,
	optType domain.OptionType,
	constraints domain.Constraints,
) (*BatchResult, error) {
	instruments := filterMarket(universe, constraints.Market)
	if len(instruments) == 0 {
		return nil, fmt.Errorf("recommend: %w", domain.ErrEmptyUniverseResult)
	}

	e.log.Info().
		Int("universe", len(instruments)).
		Str("option_type", string(optType)).
		Msg("Evaluating universe")

	results := e.pool.run(ctx, instruments, func(ctx context.Context, inst domain.Instrument) (*domain.Recommendation, *domain.SkipDiagnostic) {
		return e.evaluate(ctx, inst, optType, constraints)
	})

	batch := &BatchResult{}
	for _, r := range results {
		if r.recommendation != nil {
			batch.Recommendations = append(batch.Recommendations, *r.recommendation)
		} else if r.skip != nil {
			batch.Skipped = append(batch.Skipped, *r.skip)
		}
	}

	if len(batch.Recommendations) == 0 {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		return nil, fmt.Errorf("recommend: %w", domain.ErrEmptyUniverseResult)
	}

	sort.SliceStable(batch.Recommendations, func(i, j int) bool {
		return batch.Recommendations[i].OverallConfidence > batch.Recommendations[j].OverallConfidence
	})

	batch.Recommendations = applyFilters(batch.Recommendations, constraints)

	if err := ctx.Err(); err != nil {
		// Best effort: the completed subset still comes back ranked
		// and filtered.
		return batch, err
	}

	e.log.Info().
		Int("recommendations", len(batch.Recommendations)).
		Int("skipped", len(batch.Skipped)).
		Msg("Batch complete")

	return batch, nil
}

// evaluate runs the full pipeline for one instrument.
func (e *Engine) evaluate(
	ctx context.Context,
	inst domain.Instrument,
	optType domain.OptionType,
	constraints domain.Constraints,
) (*domain.Recommendation, *domain.SkipDiagnostic) {
	quote, err := e.resolver.Resolve(ctx, inst.Symbol)
	if err != nil {
		e.log.Warn().Err(err).Str("symbol", inst.Symbol).Msg("Skipping symbol: no quote")
		return nil, &domain.SkipDiagnostic{Symbol: inst.Symbol, Reason: err.Error()}
	}

	now := e.now()
	minDays, maxDays := e.expiryWindow(constraints)
	expiry := nextExpiry(now, minDays)
	if days := int(expiry.Sub(now).Hours() / 24); days < minDays || days > maxDays {
		return nil, &domain.SkipDiagnostic{
			Symbol: inst.Symbol,
			Reason: fmt.Sprintf("no expiration inside %d-%d day window", minDays, maxDays),
		}
	}

	contract := &domain.OptionContract{
		Symbol:     inst.Symbol,
		Type:       optType,
		Strike:     atmStrike(quote.Price),
		Expiration: expiry,
		Underlying: quote,
	}
	days := contract.DaysToExpiry(now)

	vol := volatility.Estimate(quote.Closes, e.cfg.DefaultVolatility)

	entry, greeks, err := pricing.Price(pricing.Input{
		Spot:         quote.Price,
		Strike:       contract.Strike,
		TimeToExpiry: float64(days) / 365.0,
		Volatility:   vol,
		RiskFreeRate: e.cfg.RiskFreeRate,
		Type:         optType,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("symbol", inst.Symbol).Msg("Skipping symbol: pricing failed")
		return nil, &domain.SkipDiagnostic{Symbol: inst.Symbol, Reason: err.Error()}
	}

	tgts := e.projector.Project(quote, contract, vol, now)
	overall := targets.OverallConfidence(tgts)

	label, risk := e.classifier.Classify(classify.Inputs{
		OverallConfidence: overall,
		ImpliedVolatility: vol,
		DaysToExpiry:      days,
		OpenInterest:      quote.OpenInterest,
		Volume:            quote.Volume,
	})

	rec := &domain.Recommendation{
		ID:                 uuid.NewString(),
		Market:             inst.Market,
		Contract:           *contract,
		EntryPrice:         entry,
		ImpliedVolatility:  vol,
		DaysToExpiry:       days,
		Greeks:             greeks,
		Targets:            tgts,
		OverallConfidence:  overall,
		Label:              label,
		RiskLevel:          risk,
		BreakevenPrice:     breakeven(contract.Strike, entry, optType),
		MaxProfitPotential: maxProfitPotential(contract.Strike, entry, tgts[2].TargetPrice, optType),
		OpenInterest:       quote.OpenInterest,
		Volume:             quote.Volume,
		GeneratedAt:        now,
	}
	return rec, nil
}

func (e *Engine) expiryWindow(constraints domain.Constraints) (int, int) {
	minDays, maxDays := e.cfg.ExpiryWindowMin, e.cfg.ExpiryWindowMax
	if constraints.ExpiryWindowDays[0] > 0 {
		minDays = constraints.ExpiryWindowDays[0]
	}
	if constraints.ExpiryWindowDays[1] > 0 {
		maxDays = constraints.ExpiryWindowDays[1]
	}
	return minDays, maxDays
}

// atmStrike snaps the spot price to the nearest standard strike
// increment for its price band.
func atmStrike(spot float64) float64 {
	var increment float64
	switch {
	case spot < 25:
		increment = 0.5
	case spot < 100:
		increment = 1
	case spot < 250:
		increment = 5
	default:
		increment = 10
	}
	return math.Round(spot/increment) * increment
}

// nextExpiry returns midnight of the first Friday whose whole-day
// distance from now is at least minDays - the standard weekly
// expiration cycle.
func nextExpiry(now time.Time, minDays int) time.Time {
	d := now.AddDate(0, 0, minDays)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	expiry := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	// Midnight alignment truncates the partial day, which lands one day
	// short of the minimum when now itself falls on a Friday.
	if int(expiry.Sub(now).Hours()/24) < minDays {
		expiry = expiry.AddDate(0, 0, 7)
	}
	return expiry
}

// breakeven is strike plus premium for a call, strike minus premium for
// a put.
func breakeven(strike, entry float64, optType domain.OptionType) float64 {
	if optType == domain.Put {
		return strike - entry
	}
	return strike + entry
}

// maxProfitPotential is the percent return if the underlying reaches the
// aggressive target: the option's intrinsic value at that price versus
// the entry premium.
func maxProfitPotential(strike, entry, target3 float64, optType domain.OptionType) float64 {
	if entry <= 0 {
		return 0
	}
	var intrinsic float64
	if optType == domain.Put {
		intrinsic = math.Max(strike-target3, 0)
	} else {
		intrinsic = math.Max(target3-strike, 0)
	}
	return (intrinsic - entry) / entry * 100
}

func filterMarket(universe []domain.Instrument, market string) []domain.Instrument {
	if market == "" {
		return universe
	}
	out := make([]domain.Instrument, 0, len(universe))
	for _, inst := range universe {
		if inst.Market == market {
			out = append(out, inst)
		}
	}
	return out
}

// applyFilters applies caller constraints to the sorted list and
// truncates to the requested size.
func applyFilters(recs []domain.Recommendation, constraints domain.Constraints) []domain.Recommendation {
	filtered := make([]domain.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if constraints.MinConfidence > 0 && rec.OverallConfidence < constraints.MinConfidence {
			continue
		}
		if constraints.MaxRisk != nil && rec.RiskLevel > *constraints.MaxRisk {
			continue
		}
		filtered = append(filtered, rec)
	}

	limit := constraints.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

package targets

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/amaddali82/stocks.ai/internal/config"
	"github.com/amaddali82/stocks.ai/internal/domain"
)

func testThresholds() config.Thresholds {
	return config.Thresholds{
		BaseConfidencePrimary:   0.90,
		BaseConfidenceSecondary: 0.84,
		AggressiveCap:           0.70,
	}
}

func testContract(optType domain.OptionType, now time.Time) (*domain.Quote, *domain.OptionContract) {
	quote := &domain.Quote{
		Symbol: "AAPL",
		Price:  185.50,
		Tier:   domain.TierPrimary,
	}
	contract := &domain.OptionContract{
		Symbol:     "AAPL",
		Type:       optType,
		Strike:     185,
		Expiration: now.AddDate(0, 0, 41),
		Underlying: quote,
	}
	return quote, contract
}

func TestProjector_Project_CallTargetsAscend(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	quote, contract := testContract(domain.Call, now)
	p := NewProjector(testThresholds(), zerolog.Nop())

	targets := p.Project(quote, contract, 0.35, now)

	assert.Greater(t, targets[0].TargetPrice, quote.Price)
	assert.Greater(t, targets[1].TargetPrice, targets[0].TargetPrice)
	assert.Greater(t, targets[2].TargetPrice, targets[1].TargetPrice)
	assert.Equal(t, 1, targets[0].Level)
	assert.Equal(t, 2, targets[1].Level)
	assert.Equal(t, 3, targets[2].Level)
}

func TestProjector_Project_PutTargetsDescend(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	quote, contract := testContract(domain.Put, now)
	p := NewProjector(testThresholds(), zerolog.Nop())

	targets := p.Project(quote, contract, 0.35, now)

	assert.Less(t, targets[0].TargetPrice, quote.Price)
	assert.Less(t, targets[1].TargetPrice, targets[0].TargetPrice)
	assert.Less(t, targets[2].TargetPrice, targets[1].TargetPrice)
}

func TestProjector_Project_ConfidencesMonotonic(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	p := NewProjector(testThresholds(), zerolog.Nop())

	for _, tier := range []domain.QuoteTier{domain.TierPrimary, domain.TierSecondary} {
		quote, contract := testContract(domain.Call, now)
		quote.Tier = tier

		targets := p.Project(quote, contract, 0.35, now)

		assert.GreaterOrEqual(t, targets[0].Confidence, targets[1].Confidence)
		assert.GreaterOrEqual(t, targets[1].Confidence, targets[2].Confidence)
		for _, tgt := range targets {
			assert.GreaterOrEqual(t, tgt.Confidence, 0.0)
			assert.LessOrEqual(t, tgt.Confidence, 1.0)
		}
	}
}

func TestProjector_Project_AggressiveCapApplies(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	quote, contract := testContract(domain.Call, now)
	p := NewProjector(testThresholds(), zerolog.Nop())

	targets := p.Project(quote, contract, 0.35, now)
	assert.LessOrEqual(t, targets[2].Confidence, testThresholds().AggressiveCap)
}

func TestProjector_Project_PrimaryTierOutranksSecondary(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	p := NewProjector(testThresholds(), zerolog.Nop())

	primaryQuote, primaryContract := testContract(domain.Call, now)
	primary := p.Project(primaryQuote, primaryContract, 0.35, now)

	secondaryQuote, secondaryContract := testContract(domain.Call, now)
	secondaryQuote.Tier = domain.TierSecondary
	secondary := p.Project(secondaryQuote, secondaryContract, 0.35, now)

	assert.Greater(t, primary[0].Confidence, secondary[0].Confidence)
}

func TestProjector_Project_TimeDecayFloors(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	p := NewProjector(testThresholds(), zerolog.Nop())

	quote, near := testContract(domain.Call, now)
	near.Expiration = now.AddDate(0, 0, 20)
	nearTargets := p.Project(quote, near, 0.35, now)

	_, far := testContract(domain.Call, now)
	far.Expiration = now.AddDate(0, 0, 400)
	farTargets := p.Project(quote, far, 0.35, now)

	// Decay is bounded at 0.85 of the base, so even very long dated
	// contracts keep most of their confidence.
	assert.GreaterOrEqual(t, farTargets[0].Confidence, 0.85*testThresholds().BaseConfidencePrimary-1e-9)
	assert.GreaterOrEqual(t, nearTargets[0].Confidence, farTargets[0].Confidence)
}

func TestOverallConfidence_Weights(t *testing.T) {
	targets := [3]domain.PriceTarget{
		{Level: 1, Confidence: 0.90},
		{Level: 2, Confidence: 0.80},
		{Level: 3, Confidence: 0.60},
	}
	expected := 0.5*0.90 + 0.3*0.80 + 0.2*0.60
	assert.InDelta(t, expected, OverallConfidence(targets), 1e-12)
}

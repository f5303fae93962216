// Package domain contains the core data model for the options analytics
// engine. Types here are pure data - no infrastructure dependencies.
package domain

import (
	"encoding/json"
	"time"
)

// OptionType is the side of an option contract.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// QuoteTier ranks the reliability of the data source that produced a quote.
// The primary provider gets the highest projection base confidence.
type QuoteTier int

const (
	TierPrimary   QuoteTier = 0
	TierSecondary QuoteTier = 1
)

// Quote is a snapshot of an underlying price plus quote metadata.
// Immutable once fetched - a fresher fetch creates a new Quote, it never
// mutates an existing one.
type Quote struct {
	Symbol       string    `json:"symbol"`
	Price        float64   `json:"price"`
	AsOf         time.Time `json:"as_of"`
	Source       string    `json:"source"`
	Tier         QuoteTier `json:"tier"`
	Volume       int64     `json:"volume"`
	OpenInterest int64     `json:"open_interest"` // as reported by the provider, zero when unknown
	MarketCap    *float64  `json:"market_cap,omitempty"`

	// Closes holds recent daily closing prices (oldest first) when the
	// provider supplies history. Used for volatility estimation.
	Closes []float64 `json:"-"`
}

// OptionContract is a strike/expiry pair chosen by the engine for a
// resolved underlying quote. Created per request, never persisted here.
type OptionContract struct {
	Symbol     string     `json:"symbol"`
	Type       OptionType `json:"option_type"`
	Strike     float64    `json:"strike_price"`
	Expiration time.Time  `json:"expiration_date"`
	Underlying *Quote     `json:"underlying"`
}

// DaysToExpiry returns whole calendar days between now and expiration.
func (c *OptionContract) DaysToExpiry(now time.Time) int {
	return int(c.Expiration.Sub(now).Hours() / 24)
}

// Greeks are the option value sensitivities. Derived, read-only,
// recomputed on every pricing call.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"` // value lost per calendar day
	Vega  float64 `json:"vega"`  // per 1% volatility move
	Rho   float64 `json:"rho"`   // per 1% rate move
}

// PriceTarget is one of three forward price targets, ordered by
// increasing aggressiveness and decreasing confidence.
type PriceTarget struct {
	Level       int     `json:"level"` // 1..3
	TargetPrice float64 `json:"target_price"`
	Confidence  float64 `json:"confidence"` // [0,1]
}

// Label is the discrete recommendation bucket.
type Label string

const (
	StrongBuy Label = "STRONG BUY"
	Buy       Label = "BUY"
	Hold      Label = "HOLD"
	Avoid     Label = "AVOID"
)

// RiskLevel orders as LOW < MEDIUM < HIGH so that worst-case risk can be
// combined with Max.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns the wire representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the risk level as its string form.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON decodes the string form back to a RiskLevel.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRiskLevel(s)
	return nil
}

// ParseRiskLevel maps the wire representation back to a RiskLevel.
// Unknown values parse as HIGH - the conservative default.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "LOW":
		return RiskLow
	case "MEDIUM":
		return RiskMedium
	}
	return RiskHigh
}

// MaxRisk returns the worse of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if a > b {
		return a
	}
	return b
}

// Recommendation is the fully-derived output record for one contract.
// Lifecycle is request-scoped: built, returned, discarded.
type Recommendation struct {
	ID                 string         `json:"id"`
	Market             string         `json:"market"`
	Contract           OptionContract `json:"contract"`
	EntryPrice         float64        `json:"entry_price"` // theoretical value used as premium estimate
	ImpliedVolatility  float64        `json:"implied_volatility"`
	DaysToExpiry       int            `json:"days_to_expiry"`
	Greeks             Greeks         `json:"greeks"`
	Targets            [3]PriceTarget `json:"targets"`
	OverallConfidence  float64        `json:"overall_confidence"`
	Label              Label          `json:"recommendation"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	BreakevenPrice     float64        `json:"breakeven_price"`
	MaxProfitPotential float64        `json:"max_profit_potential"` // percent
	OpenInterest       int64          `json:"open_interest"`
	Volume             int64          `json:"volume"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// Instrument is one entry of the evaluation universe.
type Instrument struct {
	Symbol string `json:"symbol"`
	Market string `json:"market"` // e.g. "US", "INDIA"
}

// SkipDiagnostic records why a symbol produced no recommendation.
type SkipDiagnostic struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// Constraints are the caller-supplied filters for a recommendation batch.
// Zero values mean "no constraint" (Limit zero falls back to a default).
type Constraints struct {
	Market           string     `json:"market,omitempty"`
	MinConfidence    float64    `json:"min_confidence,omitempty"`
	MaxRisk          *RiskLevel `json:"max_risk,omitempty"`
	Limit            int        `json:"limit,omitempty"`
	ExpiryWindowDays [2]int     `json:"expiry_window_days,omitempty"` // min, max; zero uses defaults
}

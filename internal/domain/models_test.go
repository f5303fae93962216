package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevel_Ordering(t *testing.T) {
	assert.Less(t, RiskLow, RiskMedium)
	assert.Less(t, RiskMedium, RiskHigh)
}

func TestRiskLevel_String(t *testing.T) {
	assert.Equal(t, "LOW", RiskLow.String())
	assert.Equal(t, "MEDIUM", RiskMedium.String())
	assert.Equal(t, "HIGH", RiskHigh.String())
}

func TestParseRiskLevel(t *testing.T) {
	assert.Equal(t, RiskLow, ParseRiskLevel("LOW"))
	assert.Equal(t, RiskMedium, ParseRiskLevel("MEDIUM"))
	assert.Equal(t, RiskHigh, ParseRiskLevel("HIGH"))
	assert.Equal(t, RiskHigh, ParseRiskLevel("garbage"), "unknown values parse conservatively")
}

func TestRiskLevel_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(RiskMedium)
	require.NoError(t, err)
	assert.Equal(t, `"MEDIUM"`, string(data))

	var r RiskLevel
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, RiskMedium, r)
}

func TestMaxRisk(t *testing.T) {
	assert.Equal(t, RiskHigh, MaxRisk(RiskLow, RiskHigh))
	assert.Equal(t, RiskHigh, MaxRisk(RiskHigh, RiskLow))
	assert.Equal(t, RiskMedium, MaxRisk(RiskMedium, RiskLow))
	assert.Equal(t, RiskLow, MaxRisk(RiskLow, RiskLow))
}

func TestOptionContract_DaysToExpiry(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	c := &OptionContract{Expiration: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 17, c.DaysToExpiry(now), "partial days truncate")

	expired := &OptionContract{Expiration: now.AddDate(0, 0, -1)}
	assert.Negative(t, expired.DaysToExpiry(now))
}

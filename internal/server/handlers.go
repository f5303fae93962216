package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaddali82/stocks.ai/internal/domain"
	"github.com/amaddali82/stocks.ai/internal/engine"
)

// RecommendationEngine is the handler's view of the analytics engine.
type RecommendationEngine interface {
	Recommend(ctx context.Context, universe []domain.Instrument, optType domain.OptionType, constraints domain.Constraints) (*engine.BatchResult, error)
}

// Handler serves the recommendation API. It is thin plumbing: parse
// query parameters, call the engine, encode JSON.
type Handler struct {
	engine   RecommendationEngine
	universe []domain.Instrument
	log      zerolog.Logger
}

// NewHandler creates a recommendations handler over the default universe.
func NewHandler(eng RecommendationEngine, universe []domain.Instrument, log zerolog.Logger) *Handler {
	return &Handler{
		engine:   eng,
		universe: universe,
		log:      log.With().Str("handler", "recommendations").Logger(),
	}
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "options-engine",
	})
}

// HandleRecommendations handles GET /api/recommendations.
//
// Query parameters: type (CALL|PUT, default CALL), market, symbols
// (comma-separated, defaults to the configured universe),
// min_confidence, max_risk (LOW|MEDIUM|HIGH), limit, expiry_min,
// expiry_max.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	optType := domain.Call
	switch strings.ToUpper(q.Get("type")) {
	case "", "CALL":
	case "PUT":
		optType = domain.Put
	default:
		http.Error(w, "type must be CALL or PUT", http.StatusBadRequest)
		return
	}

	constraints := domain.Constraints{
		Market: strings.ToUpper(q.Get("market")),
	}
	if v := q.Get("min_confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "min_confidence must be a number", http.StatusBadRequest)
			return
		}
		constraints.MinConfidence = f
	}
	if v := q.Get("max_risk"); v != "" {
		risk := domain.ParseRiskLevel(strings.ToUpper(v))
		constraints.MaxRisk = &risk
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		constraints.Limit = n
	}
	if v := q.Get("expiry_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "expiry_min must be a positive integer", http.StatusBadRequest)
			return
		}
		constraints.ExpiryWindowDays[0] = n
	}
	if v := q.Get("expiry_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "expiry_max must be a positive integer", http.StatusBadRequest)
			return
		}
		constraints.ExpiryWindowDays[1] = n
	}

	universe := h.universe
	if v := q.Get("symbols"); v != "" {
		universe = nil
		for _, s := range strings.Split(v, ",") {
			if sym := strings.TrimSpace(strings.ToUpper(s)); sym != "" {
				universe = append(universe, domain.Instrument{Symbol: sym, Market: "US"})
			}
		}
	}

	batch, err := h.engine.Recommend(r.Context(), universe, optType, constraints)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyUniverseResult) {
			http.Error(w, "no symbols could be evaluated", http.StatusServiceUnavailable)
			return
		}
		h.log.Error().Err(err).Msg("Recommendation batch failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":           len(batch.Recommendations),
		"recommendations": batch.Recommendations,
		"skipped":         batch.Skipped,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

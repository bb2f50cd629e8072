package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pmallory/recall-api/internal/api/shared"
	"github.com/pmallory/recall-api/internal/platform/logger"
	"github.com/pmallory/recall-api/internal/service/insights"
)

// InsightsHandler handles the analytics endpoints: weak areas and the
// per-card review recommendations.
type InsightsHandler struct {
	insightsService insights.InsightsService
	logger          *slog.Logger
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insightsService insights.InsightsService, log *slog.Logger) *InsightsHandler {
	if insightsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("insightsService cannot be nil for InsightsHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &InsightsHandler{
		insightsService: insightsService,
		logger:          log.With(slog.String("component", "insights_handler")),
	}
}

// windowDays parses the optional window_days query parameter. Zero means
// "use the default window".
func windowDays(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("window_days")
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}

// WeakAreas handles GET /api/insights/weak-areas?window_days=N.
func (h *InsightsHandler) WeakAreas(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	window, ok := windowDays(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid window_days parameter")
		return
	}

	areas, err := h.insightsService.WeakAreas(r.Context(), userID, window)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to analyze weak areas")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, areas)
}

// Recommendations handles GET /api/insights/recommendations?window_days=N.
func (h *InsightsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	window, ok := windowDays(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid window_days parameter")
		return
	}

	recs, err := h.insightsService.Recommendations(r.Context(), userID, window)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build recommendations")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, recs)
}

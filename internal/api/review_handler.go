package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pmallory/recall-api/internal/api/shared"
	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/platform/logger"
	"github.com/pmallory/recall-api/internal/service/card_review"
)

// ReviewHandler handles the review session endpoints: queue, counts,
// answer submission, previews, postpone, and reset.
type ReviewHandler struct {
	reviewService card_review.CardReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService card_review.CardReviewService, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// GetQueue handles GET /api/reviews/queue?limit=N.
func (h *ReviewHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := 0 // service applies the default
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	queue, err := h.reviewService.GetQueue(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build review queue")
		return
	}

	log.Debug("review queue built",
		slog.String("user_id", userID.String()),
		slog.Int("queue_size", len(queue)))
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(queue))
}

// GetCounts handles GET /api/reviews/counts.
func (h *ReviewHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	counts, err := h.reviewService.GetCounts(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review counts")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}

// SubmitReview handles POST /api/cards/{id}/review.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	answer := card_review.ReviewAnswer{
		Outcome:         domain.ReviewOutcome(req.Outcome),
		ResponseSeconds: req.ResponseSeconds,
	}

	card, err := h.reviewService.SubmitAnswer(r.Context(), userID, cardID, answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("review answer applied",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("outcome", req.Outcome),
		slog.String("new_state", string(card.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// GetPreviews handles GET /api/cards/{id}/preview.
func (h *ReviewHandler) GetPreviews(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	previews, err := h.reviewService.GetPreviews(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := PreviewResponse{Previews: make(map[string]string, len(previews))}
	for outcome, label := range previews {
		resp.Previews[string(outcome)] = label
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetHistory handles GET /api/cards/{id}/history.
func (h *ReviewHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	entries, err := h.reviewService.GetHistory(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewLogsToResponse(entries))
}

// Postpone handles POST /api/cards/{id}/postpone.
func (h *ReviewHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.reviewService.Postpone(r.Context(), userID, cardID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ResetCard handles POST /api/cards/{id}/reset.
func (h *ReviewHandler) ResetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	card, err := h.reviewService.ResetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card schedule reset",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

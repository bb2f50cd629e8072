// Package card_review implements the review workflow: queue building,
// answer submission, interval previews, and schedule adjustments.
package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/domain/srs"
)

// ReviewAnswer represents a user's answer to a flashcard review.
type ReviewAnswer struct {
	// Outcome is the self-rated recall quality selected by the user.
	Outcome domain.ReviewOutcome `json:"outcome"`

	// ResponseSeconds optionally records how long the user took to answer.
	ResponseSeconds *float64 `json:"response_seconds,omitempty"`
}

// CardReviewService provides the review workflow on top of the scheduler.
type CardReviewService interface {
	// GetQueue builds the user's review queue: all due cards, ordered by
	// state priority (learning and relearning first, then new, then review)
	// and due time, truncated to limit. A limit <= 0 uses the default.
	GetQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)

	// GetCounts summarizes the user's pending work: new cards, due
	// learning-phase cards, and due review cards.
	GetCounts(ctx context.Context, userID uuid.UUID) (srs.Counts, error)

	// SubmitAnswer processes a review answer in a single transaction. The
	// card's row is locked while its new schedule is computed, then the card
	// update and the review log entry are committed together.
	//
	// Returns ErrCardNotFound if the card does not exist, ErrCardNotOwned
	// if it belongs to a different user, and ErrInvalidAnswer for an
	// unknown outcome.
	SubmitAnswer(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		answer ReviewAnswer,
	) (*domain.Card, error)

	// GetPreviews computes the would-be next interval for each of the four
	// outcomes, formatted for display. Nothing is committed.
	GetPreviews(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
	) (map[domain.ReviewOutcome]string, error)

	// Postpone pushes a card's due date forward by the given number of days
	// without touching the rest of its scheduling state.
	// Returns ErrInvalidPostpone if days < 1.
	Postpone(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		days int,
	) (*domain.Card, error)

	// ResetCard returns a card to the New state with fresh scheduling
	// values, due immediately. Review history is preserved.
	ResetCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*domain.Card, error)

	// GetHistory retrieves a card's review log entries, most recent first.
	// The log is append-only, so this is the card's full scheduling history.
	GetHistory(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)
}

// Common error types for CardReviewService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidAnswer indicates an invalid answer was provided.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidPostpone indicates a non-positive postpone duration.
	ErrInvalidPostpone = errors.New("postpone days must be at least 1")
)

// ServiceError wraps errors from the card review service with the operation
// that failed, so consumers can differentiate failures with errors.As
// instead of string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

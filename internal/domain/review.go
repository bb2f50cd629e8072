package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome represents the user's self-rated recall quality for a review.
type ReviewOutcome string

// Possible review outcome values
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// AllReviewOutcomes lists the four outcomes in ascending recall-quality order.
var AllReviewOutcomes = []ReviewOutcome{
	ReviewOutcomeAgain,
	ReviewOutcomeHard,
	ReviewOutcomeGood,
	ReviewOutcomeEasy,
}

// IsValid reports whether o is one of the four known outcomes.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeAgain, ReviewOutcomeHard, ReviewOutcomeGood, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// IsFailure reports whether the outcome counts as a failed recall for
// analytics purposes. Anything below Good is a failure.
func (o ReviewOutcome) IsFailure() bool {
	return o == ReviewOutcomeAgain || o == ReviewOutcomeHard
}

// Validation errors for review log entries
var (
	ErrLogIDEmpty         = errors.New("review log ID cannot be empty")
	ErrLogCardIDEmpty     = errors.New("review log card ID cannot be empty")
	ErrLogUserIDEmpty     = errors.New("review log user ID cannot be empty")
	ErrLogInvalidOutcome  = errors.New("review log outcome is invalid")
	ErrLogTimestampEmpty  = errors.New("review log timestamp cannot be zero")
	ErrLogNegativeSeconds = errors.New("review log response time cannot be negative")
)

// ReviewLogEntry is an immutable, append-only record of a single review
// transition. Entries are never updated or deleted; they exist solely to feed
// historical analytics such as weak-area detection and retention rates.
//
// Both the previous and new scheduling state are recorded with the same
// minutes/days field split used on Card, so the entry is unambiguous without
// consulting the card.
type ReviewLogEntry struct {
	ID                  uuid.UUID     `json:"id"`
	CardID              uuid.UUID     `json:"card_id"`
	UserID              uuid.UUID     `json:"user_id"`
	Topic               string        `json:"topic"`
	Outcome             ReviewOutcome `json:"outcome"`
	PreviousState       CardState     `json:"previous_state"`
	NewState            CardState     `json:"new_state"`
	PreviousIntervalMin int           `json:"previous_interval_minutes"`
	PreviousIntervalDay int           `json:"previous_interval_days"`
	NewIntervalMin      int           `json:"new_interval_minutes"`
	NewIntervalDay      int           `json:"new_interval_days"`
	PreviousEaseFactor  float64       `json:"previous_ease_factor"`
	NewEaseFactor       float64       `json:"new_ease_factor"`
	ResponseSeconds     *float64      `json:"response_seconds,omitempty"`
	ReviewedAt          time.Time     `json:"reviewed_at"`
}

// Validate checks if the ReviewLogEntry has valid data.
func (e *ReviewLogEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrLogIDEmpty
	}

	if e.CardID == uuid.Nil {
		return ErrLogCardIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrLogUserIDEmpty
	}

	if !e.Outcome.IsValid() {
		return ErrLogInvalidOutcome
	}

	if e.ReviewedAt.IsZero() {
		return ErrLogTimestampEmpty
	}

	if e.ResponseSeconds != nil && *e.ResponseSeconds < 0 {
		return ErrLogNegativeSeconds
	}

	return nil
}

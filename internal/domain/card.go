package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardTopicEmpty is returned when a card's topic is empty.
	ErrCardTopicEmpty = errors.New("card topic cannot be empty")

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")

	// ErrCardContentInvalid is returned when a card's content is not valid JSON.
	ErrCardContentInvalid = errors.New("card content must be valid JSON")

	// ErrInvalidCardState is returned when a card's state is not a known state.
	ErrInvalidCardState = errors.New("invalid card state")

	// ErrInvalidInterval is returned when a card carries a negative interval.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when a card's ease factor is out of range.
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")

	// ErrInvalidLearningStep is returned when a card carries a negative learning step.
	ErrInvalidLearningStep = errors.New("learning step must be greater than or equal to 0")
)

// CardState identifies which phase of the scheduling lifecycle a card is in.
// The state determines which interval field is active: IntervalMinutes for
// Learning and Relearning, IntervalDays for Review.
type CardState string

// Possible card states
const (
	CardStateNew        CardState = "new"
	CardStateLearning   CardState = "learning"
	CardStateReview     CardState = "review"
	CardStateRelearning CardState = "relearning"
)

// IsValid reports whether s is one of the known card states.
func (s CardState) IsValid() bool {
	switch s {
	case CardStateNew, CardStateLearning, CardStateReview, CardStateRelearning:
		return true
	default:
		return false
	}
}

// DefaultEaseFactor is the ease factor assigned to newly created cards.
const DefaultEaseFactor = 2.5

// Card represents one learnable fact together with its spaced-repetition
// scheduling state. The content is stored as a JSONB structure (front/back
// text, source page, owning book) and is opaque to the scheduler.
//
// The interval is deliberately split into two fields rather than a single
// state-dependent one: IntervalMinutes is meaningful while the card is in
// Learning or Relearning, IntervalDays while it is in Review. At most one of
// the two is non-zero at any time.
type Card struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Topic           string          `json:"topic"`
	Content         json.RawMessage `json:"content"`
	State           CardState       `json:"state"`
	LearningStep    int             `json:"learning_step"`
	IntervalMinutes int             `json:"interval_minutes"`
	IntervalDays    int             `json:"interval_days"`
	EaseFactor      float64         `json:"ease_factor"`
	Repetitions     int             `json:"repetitions"`
	DueAt           time.Time       `json:"due_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewCard creates a new Card for the given user with the given topic and
// content. The card starts in the New state with ease factor 2.5, due
// immediately. Returns an error if validation fails.
func NewCard(userID uuid.UUID, topic string, content json.RawMessage) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		UserID:     userID,
		Topic:      topic,
		Content:    content,
		State:      CardStateNew,
		EaseFactor: DefaultEaseFactor,
		DueAt:      now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.Topic == "" {
		return ErrCardTopicEmpty
	}

	if len(c.Content) == 0 {
		return ErrCardContentEmpty
	}

	// Check if content is valid JSON
	var js json.RawMessage
	if err := json.Unmarshal(c.Content, &js); err != nil {
		return ErrCardContentInvalid
	}

	if !c.State.IsValid() {
		return ErrInvalidCardState
	}

	if c.IntervalMinutes < 0 || c.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if c.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	if c.LearningStep < 0 {
		return ErrInvalidLearningStep
	}

	return nil
}

// UpdateContent updates the card's content and updates the UpdatedAt timestamp.
// Returns an error if the new content is invalid.
func (c *Card) UpdateContent(content json.RawMessage) error {
	// Temporarily update content to validate
	origContent := c.Content
	c.Content = content

	if err := c.Validate(); err != nil {
		// Restore original content if invalid
		c.Content = origContent
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ResetSchedule reinitializes the card's scheduling state to that of a brand
// new card, due immediately. Review history is untouched; this is the caller's
// "start over" operation, not part of normal scheduling.
func (c *Card) ResetSchedule(now time.Time) {
	c.State = CardStateNew
	c.LearningStep = 0
	c.IntervalMinutes = 0
	c.IntervalDays = 0
	c.EaseFactor = DefaultEaseFactor
	c.Repetitions = 0
	c.DueAt = now
	c.UpdatedAt = now
}

// IsDue reports whether the card is eligible for review at the given time.
func (c *Card) IsDue(now time.Time) bool {
	return !c.DueAt.After(now)
}

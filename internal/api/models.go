package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pmallory/recall-api/internal/domain"
)

// Auth models

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Card models

// CreateCardRequest defines the payload for creating a card. Content is an
// opaque JSON document (front/back text and whatever else the client keeps).
type CreateCardRequest struct {
	Topic   string          `json:"topic"   validate:"required,min=1,max=200"`
	Content json.RawMessage `json:"content" validate:"required"`
}

// UpdateCardRequest defines the payload for editing a card's content.
// An empty topic keeps the existing one.
type UpdateCardRequest struct {
	Topic   string          `json:"topic"   validate:"omitempty,min=1,max=200"`
	Content json.RawMessage `json:"content" validate:"required"`
}

// CardResponse is the wire representation of a card, scheduling state
// included.
type CardResponse struct {
	ID              uuid.UUID       `json:"id"`
	Topic           string          `json:"topic"`
	Content         json.RawMessage `json:"content"`
	State           string          `json:"state"`
	LearningStep    int             `json:"learning_step"`
	IntervalMinutes int             `json:"interval_minutes"`
	IntervalDays    int             `json:"interval_days"`
	EaseFactor      float64         `json:"ease_factor"`
	Repetitions     int             `json:"repetitions"`
	DueAt           time.Time       `json:"due_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// cardToResponse converts a domain.Card to its wire representation. The
// owning user ID is deliberately omitted: every endpoint is already scoped
// to the authenticated user.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:              card.ID,
		Topic:           card.Topic,
		Content:         card.Content,
		State:           string(card.State),
		LearningStep:    card.LearningStep,
		IntervalMinutes: card.IntervalMinutes,
		IntervalDays:    card.IntervalDays,
		EaseFactor:      card.EaseFactor,
		Repetitions:     card.Repetitions,
		DueAt:           card.DueAt,
		CreatedAt:       card.CreatedAt,
		UpdatedAt:       card.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardToResponse(card))
	}
	return out
}

// Review models

// SubmitReviewRequest defines the payload for answering a card review.
type SubmitReviewRequest struct {
	Outcome         string   `json:"outcome" validate:"required,oneof=again hard good easy"`
	ResponseSeconds *float64 `json:"response_seconds,omitempty" validate:"omitempty,gte=0"`
}

// PostponeRequest defines the payload for postponing a card.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,gte=1"`
}

// ReviewLogResponse is the wire representation of one review log entry. As
// with CardResponse, the owning user ID is omitted.
type ReviewLogResponse struct {
	ID                  uuid.UUID `json:"id"`
	CardID              uuid.UUID `json:"card_id"`
	Topic               string    `json:"topic"`
	Outcome             string    `json:"outcome"`
	PreviousState       string    `json:"previous_state"`
	NewState            string    `json:"new_state"`
	PreviousIntervalMin int       `json:"previous_interval_minutes"`
	PreviousIntervalDay int       `json:"previous_interval_days"`
	NewIntervalMin      int       `json:"new_interval_minutes"`
	NewIntervalDay      int       `json:"new_interval_days"`
	PreviousEaseFactor  float64   `json:"previous_ease_factor"`
	NewEaseFactor       float64   `json:"new_ease_factor"`
	ResponseSeconds     *float64  `json:"response_seconds,omitempty"`
	ReviewedAt          time.Time `json:"reviewed_at"`
}

func reviewLogsToResponse(entries []domain.ReviewLogEntry) []ReviewLogResponse {
	out := make([]ReviewLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ReviewLogResponse{
			ID:                  e.ID,
			CardID:              e.CardID,
			Topic:               e.Topic,
			Outcome:             string(e.Outcome),
			PreviousState:       string(e.PreviousState),
			NewState:            string(e.NewState),
			PreviousIntervalMin: e.PreviousIntervalMin,
			PreviousIntervalDay: e.PreviousIntervalDay,
			NewIntervalMin:      e.NewIntervalMin,
			NewIntervalDay:      e.NewIntervalDay,
			PreviousEaseFactor:  e.PreviousEaseFactor,
			NewEaseFactor:       e.NewEaseFactor,
			ResponseSeconds:     e.ResponseSeconds,
			ReviewedAt:          e.ReviewedAt,
		})
	}
	return out
}

// PreviewResponse maps each answer quality to a compact interval label,
// e.g. {"again":"10m","hard":"1mo","good":"3mo","easy":"4mo"}.
type PreviewResponse struct {
	Previews map[string]string `json:"previews"`
}

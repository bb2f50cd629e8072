// Package cards provides the card management service: creating, reading,
// editing, and deleting a user's cards. Scheduling operations live in the
// card_review service.
package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/platform/logger"
	"github.com/pmallory/recall-api/internal/store"
)

// Service errors.
var (
	// ErrCardNotFound indicates the requested card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates the card belongs to a different user.
	ErrCardNotOwned = errors.New("card does not belong to the user")

	// ErrInvalidCard indicates the card data failed validation.
	ErrInvalidCard = errors.New("invalid card data")
)

// ServiceError wraps card management failures with operation context while
// preserving the underlying error for errors.Is checks.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card management %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card management %s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// CardService provides card management operations. Every operation is scoped
// to the owning user; accessing another user's card yields ErrCardNotOwned.
type CardService interface {
	// CreateCard creates a new card with fresh scheduling state.
	CreateCard(ctx context.Context, userID uuid.UUID, topic string, content json.RawMessage) (*domain.Card, error)

	// GetCard retrieves a card owned by the user.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards retrieves all cards owned by the user.
	ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateContent replaces the card's content payload and optionally its
	// topic. Scheduling state is untouched.
	UpdateContent(ctx context.Context, userID, cardID uuid.UUID, topic string, content json.RawMessage) (*domain.Card, error)

	// DeleteCard removes a card. Its review logs are removed by the
	// database cascade.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

type cardServiceImpl struct {
	cardStore store.CardStore
	logger    *slog.Logger
	now       func() time.Time
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
func NewCardService(cardStore store.CardStore, logger *slog.Logger) CardService {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil for CardService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cardServiceImpl{
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "card_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
	content json.RawMessage,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(userID, topic, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, &ServiceError{Operation: "create_card", Message: "failed to save card", Err: err}
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", userID.String()))
	return card, nil
}

func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.getOwned(ctx, userID, cardID, "get_card")
}

func (s *cardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	cards, err := s.cardStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_cards", Message: "failed to list cards", Err: err}
	}
	return cards, nil
}

func (s *cardServiceImpl) UpdateContent(
	ctx context.Context,
	userID, cardID uuid.UUID,
	topic string,
	content json.RawMessage,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.getOwned(ctx, userID, cardID, "update_content")
	if err != nil {
		return nil, err
	}

	if err := card.UpdateContent(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if topic != "" {
		card.Topic = topic
	}
	card.UpdatedAt = s.now()

	if err := s.cardStore.Update(ctx, card); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{Operation: "update_content", Message: "failed to save card", Err: err}
	}

	return card, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwned(ctx, userID, cardID, "delete_card"); err != nil {
		return err
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return &ServiceError{Operation: "delete_card", Message: "failed to delete card", Err: err}
	}

	log.Debug("card deleted",
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// getOwned loads a card and verifies ownership.
func (s *cardServiceImpl) getOwned(
	ctx context.Context,
	userID, cardID uuid.UUID,
	operation string,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, &ServiceError{Operation: operation, Message: "failed to load card", Err: err}
	}
	if card.UserID != userID {
		return nil, ErrCardNotOwned
	}
	return card, nil
}

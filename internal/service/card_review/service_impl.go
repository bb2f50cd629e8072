package card_review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/domain/srs"
	"github.com/pmallory/recall-api/internal/platform/logger"
	"github.com/pmallory/recall-api/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	cardRepo   CardRepository
	logRepo    ReviewLogRepository
	srsService srs.Service
	logger     *slog.Logger
	now        func() time.Time
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	cardRepo CardRepository,
	logRepo ReviewLogRepository,
	srsService srs.Service,
	log *slog.Logger,
) CardReviewService {
	if cardRepo == nil {
		panic("cardRepo cannot be nil")
	}
	if logRepo == nil {
		panic("logRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &cardReviewServiceImpl{
		cardRepo:   cardRepo,
		logRepo:    logRepo,
		srsService: srsService,
		logger:     log.With(slog.String("component", "card_review_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetQueue implements CardReviewService.GetQueue.
func (s *cardReviewServiceImpl) GetQueue(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	due, err := s.cardRepo.ListDueByUser(ctx, userID, now)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to build review queue: %w", err)
	}

	queue := srs.SelectDue(due, now, limit)

	log.Debug("review queue built",
		slog.String("user_id", userID.String()),
		slog.Int("due", len(due)),
		slog.Int("queued", len(queue)))
	return queue, nil
}

// GetCounts implements CardReviewService.GetCounts.
func (s *cardReviewServiceImpl) GetCounts(
	ctx context.Context,
	userID uuid.UUID,
) (srs.Counts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list cards for counts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return srs.Counts{}, fmt.Errorf("failed to count cards: %w", err)
	}

	return srs.CountCards(cards, s.now()), nil
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	answer ReviewAnswer,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(answer.Outcome)))

	if !answer.Outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("outcome", string(answer.Outcome)))
		return nil, ErrInvalidAnswer
	}
	if answer.ResponseSeconds != nil && *answer.ResponseSeconds < 0 {
		return nil, ErrInvalidAnswer
	}

	var updated *domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, cards CardRepository, logs ReviewLogRepository) error {
		card, err := s.lockOwnedCard(ctx, cards, userID, cardID, log)
		if err != nil {
			return err
		}

		now := s.now()
		result, err := s.srsService.Schedule(card, answer.Outcome, now)
		if err != nil {
			return fmt.Errorf("failed to compute schedule: %w", err)
		}

		entry := &domain.ReviewLogEntry{
			ID:                  uuid.New(),
			CardID:              card.ID,
			UserID:              card.UserID,
			Topic:               card.Topic,
			Outcome:             answer.Outcome,
			PreviousState:       card.State,
			NewState:            result.State,
			PreviousIntervalMin: card.IntervalMinutes,
			PreviousIntervalDay: card.IntervalDays,
			NewIntervalMin:      result.IntervalMinutes,
			NewIntervalDay:      result.IntervalDays,
			PreviousEaseFactor:  card.EaseFactor,
			NewEaseFactor:       result.EaseFactor,
			ResponseSeconds:     answer.ResponseSeconds,
			ReviewedAt:          now,
		}

		result.ApplyTo(card, now)

		if err := cards.Update(ctx, card); err != nil {
			return fmt.Errorf("failed to update card schedule: %w", err)
		}
		if err := logs.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		updated = card
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{Operation: "submit_answer", Message: "transaction failed", Err: err}
	}

	log.Info("review answer processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(answer.Outcome)),
		slog.String("new_state", string(updated.State)),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}

// GetPreviews implements CardReviewService.GetPreviews.
func (s *cardReviewServiceImpl) GetPreviews(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) (map[domain.ReviewOutcome]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card for preview",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card.UserID != userID {
		return nil, ErrCardNotOwned
	}

	return s.srsService.Previews(card, s.now())
}

// Postpone implements CardReviewService.Postpone.
func (s *cardReviewServiceImpl) Postpone(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	days int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, ErrInvalidPostpone
	}

	var updated *domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, cards CardRepository, _ ReviewLogRepository) error {
		card, err := s.lockOwnedCard(ctx, cards, userID, cardID, log)
		if err != nil {
			return err
		}

		now := s.now()
		result, err := s.srsService.Postpone(card, days, now)
		if err != nil {
			return err
		}
		result.ApplyTo(card, now)

		if err := cards.Update(ctx, card); err != nil {
			return fmt.Errorf("failed to update card schedule: %w", err)
		}

		updated = card
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "postpone", Message: "transaction failed", Err: err}
	}

	log.Info("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.Time("due_at", updated.DueAt))
	return updated, nil
}

// ResetCard implements CardReviewService.ResetCard.
func (s *cardReviewServiceImpl) ResetCard(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, cards CardRepository, _ ReviewLogRepository) error {
		card, err := s.lockOwnedCard(ctx, cards, userID, cardID, log)
		if err != nil {
			return err
		}

		card.ResetSchedule(s.now())

		if err := cards.Update(ctx, card); err != nil {
			return fmt.Errorf("failed to reset card schedule: %w", err)
		}

		updated = card
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "reset_card", Message: "transaction failed", Err: err}
	}

	log.Info("card schedule reset", slog.String("card_id", cardID.String()))
	return updated, nil
}

// GetHistory implements CardReviewService.GetHistory.
func (s *cardReviewServiceImpl) GetHistory(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) ([]domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card for history",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card.UserID != userID {
		return nil, ErrCardNotOwned
	}

	entries, err := s.logRepo.ListByCard(ctx, cardID)
	if err != nil {
		log.Error("failed to list review history",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{Operation: "get_history", Message: "failed to list review log", Err: err}
	}

	return entries, nil
}

// lockOwnedCard loads a card under a row lock and verifies ownership.
func (s *cardReviewServiceImpl) lockOwnedCard(
	ctx context.Context,
	cards CardRepository,
	userID, cardID uuid.UUID,
	log *slog.Logger,
) (*domain.Card, error) {
	card, err := cards.GetForUpdate(ctx, cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			log.Warn("card not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if card.UserID != userID {
		log.Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", card.UserID.String()))
		return nil, ErrCardNotOwned
	}

	return card, nil
}

// runInTransaction runs the given function with transaction-bound
// repositories. Commit, rollback, and panic recovery are handled by
// store.RunInTransaction.
func (s *cardReviewServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(context.Context, CardRepository, ReviewLogRepository) error,
) error {
	return store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.cardRepo.WithTx(tx), s.logRepo.WithTx(tx))
	})
}

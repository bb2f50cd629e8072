// Package insights derives weak-area statistics and review recommendations
// from a user's review history. Everything here is a read-only view computed
// on demand; nothing feeds back into scheduling.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/domain/srs"
	"github.com/pmallory/recall-api/internal/platform/logger"
	"github.com/pmallory/recall-api/internal/store"
)

// InsightsService exposes analytics over a user's review history.
type InsightsService interface {
	// WeakAreas returns the user's struggling topics over the given rolling
	// window in days, sorted by descending failure rate. windowDays <= 0
	// uses the default window.
	WeakAreas(ctx context.Context, userID uuid.UUID, windowDays int) ([]srs.WeakArea, error)

	// Recommendations returns the user's prioritized review plan for today.
	Recommendations(ctx context.Context, userID uuid.UUID, windowDays int) ([]srs.Recommendation, error)
}

// insightsServiceImpl implements the InsightsService interface.
type insightsServiceImpl struct {
	cardStore store.CardStore
	logStore  store.ReviewLogStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewInsightsService creates a new InsightsService implementation.
func NewInsightsService(
	cardStore store.CardStore,
	logStore store.ReviewLogStore,
	log *slog.Logger,
) InsightsService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &insightsServiceImpl{
		cardStore: cardStore,
		logStore:  logStore,
		logger:    log.With(slog.String("component", "insights_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ InsightsService = (*insightsServiceImpl)(nil)

// WeakAreas implements InsightsService.WeakAreas.
func (s *insightsServiceImpl) WeakAreas(
	ctx context.Context,
	userID uuid.UUID,
	windowDays int,
) ([]srs.WeakArea, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if windowDays <= 0 {
		windowDays = srs.DefaultAnalyticsWindowDays
	}
	now := s.now()

	logs, cards, err := s.load(ctx, userID, now, windowDays)
	if err != nil {
		log.Error("failed to load review history",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	areas := srs.WeakAreas(logs, cards, now, windowDays)

	log.Debug("weak areas computed",
		slog.String("user_id", userID.String()),
		slog.Int("window_days", windowDays),
		slog.Int("weak_areas", len(areas)))
	return areas, nil
}

// Recommendations implements InsightsService.Recommendations.
func (s *insightsServiceImpl) Recommendations(
	ctx context.Context,
	userID uuid.UUID,
	windowDays int,
) ([]srs.Recommendation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if windowDays <= 0 {
		windowDays = srs.DefaultAnalyticsWindowDays
	}
	now := s.now()

	logs, cards, err := s.load(ctx, userID, now, windowDays)
	if err != nil {
		log.Error("failed to load review history",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	recs := srs.Recommendations(cards, logs, now, windowDays)

	log.Debug("recommendations computed",
		slog.String("user_id", userID.String()),
		slog.Int("recommendations", len(recs)))
	return recs, nil
}

func (s *insightsServiceImpl) load(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	windowDays int,
) ([]domain.ReviewLogEntry, []*domain.Card, error) {
	since := now.AddDate(0, 0, -windowDays)

	logs, err := s.logStore.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list review logs: %w", err)
	}

	cards, err := s.cardStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return logs, cards, nil
}

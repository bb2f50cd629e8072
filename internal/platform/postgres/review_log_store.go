package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/platform/logger"
	"github.com/pmallory/recall-api/internal/store"
)

// reviewLogColumns is the column list shared by every review log SELECT, in
// scan order.
const reviewLogColumns = `id, card_id, user_id, topic, outcome,
	previous_state, new_state,
	previous_interval_minutes, previous_interval_days,
	new_interval_minutes, new_interval_days,
	previous_ease_factor, new_ease_factor,
	response_seconds, reviewed_at`

// PostgresReviewLogStore implements the store.ReviewLogStore interface using
// a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, log *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: log.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewLogStore.Create
// Returns store.ErrInvalidEntity if the referenced card or user does not
// exist.
func (s *PostgresReviewLogStore) Create(ctx context.Context, entry *domain.ReviewLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_logs (id, card_id, user_id, topic, outcome,
			previous_state, new_state,
			previous_interval_minutes, previous_interval_days,
			new_interval_minutes, new_interval_days,
			previous_ease_factor, new_ease_factor,
			response_seconds, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.CardID,
		entry.UserID,
		entry.Topic,
		entry.Outcome,
		entry.PreviousState,
		entry.NewState,
		entry.PreviousIntervalMin,
		entry.PreviousIntervalDay,
		entry.NewIntervalMin,
		entry.NewIntervalDay,
		entry.PreviousEaseFactor,
		entry.NewEaseFactor,
		entry.ResponseSeconds,
		entry.ReviewedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during review log creation",
				slog.String("error", err.Error()),
				slog.String("card_id", entry.CardID.String()))
			return fmt.Errorf("%w: card %s or user %s not found",
				store.ErrInvalidEntity, entry.CardID, entry.UserID)
		}

		log.Error("failed to create review log entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return MapError(err)
	}

	log.Debug("review log entry created",
		slog.String("entry_id", entry.ID.String()),
		slog.String("card_id", entry.CardID.String()),
		slog.String("outcome", string(entry.Outcome)))
	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
) ([]domain.ReviewLogEntry, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM review_logs WHERE card_id = $1 ORDER BY reviewed_at DESC, id",
		reviewLogColumns,
	)
	return s.list(ctx, query, cardID)
}

// ListByUserSince implements store.ReviewLogStore.ListByUserSince
func (s *PostgresReviewLogStore) ListByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.ReviewLogEntry, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM review_logs WHERE user_id = $1 AND reviewed_at >= $2 ORDER BY reviewed_at DESC, id",
		reviewLogColumns,
	)
	return s.list(ctx, query, userID, since)
}

func (s *PostgresReviewLogStore) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list review log entries", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.ReviewLogEntry
	for rows.Next() {
		var entry domain.ReviewLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.CardID,
			&entry.UserID,
			&entry.Topic,
			&entry.Outcome,
			&entry.PreviousState,
			&entry.NewState,
			&entry.PreviousIntervalMin,
			&entry.PreviousIntervalDay,
			&entry.NewIntervalMin,
			&entry.NewIntervalDay,
			&entry.PreviousEaseFactor,
			&entry.NewEaseFactor,
			&entry.ResponseSeconds,
			&entry.ReviewedAt,
		)
		if err != nil {
			log.Error("failed to scan review log row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

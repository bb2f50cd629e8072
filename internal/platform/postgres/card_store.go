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

// cardColumns is the column list shared by every card SELECT, in scan order.
const cardColumns = `id, user_id, topic, content, state, learning_step,
	interval_minutes, interval_days, ease_factor, repetitions,
	due_at, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface using a
// PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresCardStore(db store.DBTX, log *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: log.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (id, user_id, topic, content, state, learning_step,
			interval_minutes, interval_days, ease_factor, repetitions,
			due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.Topic,
		card.Content,
		card.State,
		card.LearningStep,
		card.IntervalMinutes,
		card.IntervalDays,
		card.EaseFactor,
		card.Repetitions,
		card.DueAt,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()),
				slog.String("user_id", card.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, card.UserID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("topic", card.Topic))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := fmt.Sprintf("SELECT %s FROM cards WHERE id = $1", cardColumns)
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.CardStore.GetForUpdate. The FOR UPDATE clause
// holds a row lock until the surrounding transaction ends, serializing
// concurrent reviews of the same card.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := fmt.Sprintf("SELECT %s FROM cards WHERE id = $1 FOR UPDATE", cardColumns)
	return s.getOne(ctx, query, id)
}

func (s *PostgresCardStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, query, id)
	card, err := scanCard(row)
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// ListByUser implements store.CardStore.ListByUser
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM cards WHERE user_id = $1 ORDER BY created_at, id",
		cardColumns,
	)
	return s.list(ctx, query, userID)
}

// ListDueByUser implements store.CardStore.ListDueByUser
func (s *PostgresCardStore) ListDueByUser(
	ctx context.Context,
	userID uuid.UUID,
	due time.Time,
) ([]*domain.Card, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM cards WHERE user_id = $1 AND due_at <= $2 ORDER BY due_at, id",
		cardColumns,
	)
	return s.list(ctx, query, userID, due)
}

func (s *PostgresCardStore) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET topic = $2, content = $3, state = $4, learning_step = $5,
			interval_minutes = $6, interval_days = $7, ease_factor = $8,
			repetitions = $9, due_at = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.Topic,
		card.Content,
		card.State,
		card.LearningStep,
		card.IntervalMinutes,
		card.IntervalDays,
		card.EaseFactor,
		card.Repetitions,
		card.DueAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found during update",
			slog.String("card_id", card.ID.String()))
		return store.ErrCardNotFound
	}

	log.Debug("card updated",
		slog.String("card_id", card.ID.String()),
		slog.String("state", string(card.State)))
	return nil
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found during delete", slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Debug("card deleted", slog.String("card_id", id.String()))
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Topic,
		&card.Content,
		&card.State,
		&card.LearningStep,
		&card.IntervalMinutes,
		&card.IntervalDays,
		&card.EaseFactor,
		&card.Repetitions,
		&card.DueAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

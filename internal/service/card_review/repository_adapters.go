package card_review

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
	"github.com/pmallory/recall-api/internal/store"
)

// CardRepository defines the card data access this service needs, including
// transaction support.
type CardRepository interface {
	// GetByID retrieves a card by its unique ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card with a row-level lock. Must run inside
	// a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser retrieves all of a user's cards.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// ListDueByUser retrieves the user's cards due at or before the given time.
	ListDueByUser(ctx context.Context, userID uuid.UUID, due time.Time) ([]*domain.Card, error)

	// Update persists the card's current field values.
	Update(ctx context.Context, card *domain.Card) error

	// WithTx returns a repository bound to the provided transaction.
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection for starting transactions.
	DB() *sql.DB
}

// ReviewLogRepository defines the review log access this service needs.
type ReviewLogRepository interface {
	// Create appends a new review log entry.
	Create(ctx context.Context, entry *domain.ReviewLogEntry) error

	// ListByCard retrieves all entries for a card, most recent first.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)

	// WithTx returns a repository bound to the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogRepository
}

// NewCardRepositoryAdapter creates an adapter that allows a store.CardStore
// to be used where a CardRepository is expected. Store-level not-found
// errors are translated to this package's sentinels.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sql.DB
}

func (a *cardRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := a.cardStore.GetByID(ctx, id)
	return card, mapStoreError(err)
}

func (a *cardRepositoryAdapter) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := a.cardStore.GetForUpdate(ctx, id)
	return card, mapStoreError(err)
}

func (a *cardRepositoryAdapter) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Card, error) {
	return a.cardStore.ListByUser(ctx, userID)
}

func (a *cardRepositoryAdapter) ListDueByUser(
	ctx context.Context,
	userID uuid.UUID,
	due time.Time,
) ([]*domain.Card, error) {
	return a.cardStore.ListDueByUser(ctx, userID, due)
}

func (a *cardRepositoryAdapter) Update(ctx context.Context, card *domain.Card) error {
	return mapStoreError(a.cardStore.Update(ctx, card))
}

func (a *cardRepositoryAdapter) WithTx(tx *sql.Tx) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: a.cardStore.WithTx(tx),
		db:        a.db,
	}
}

func (a *cardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewReviewLogRepositoryAdapter creates an adapter that allows a
// store.ReviewLogStore to be used where a ReviewLogRepository is expected.
func NewReviewLogRepositoryAdapter(logStore store.ReviewLogStore) ReviewLogRepository {
	return &reviewLogRepositoryAdapter{logStore: logStore}
}

type reviewLogRepositoryAdapter struct {
	logStore store.ReviewLogStore
}

func (a *reviewLogRepositoryAdapter) Create(ctx context.Context, entry *domain.ReviewLogEntry) error {
	return a.logStore.Create(ctx, entry)
}

func (a *reviewLogRepositoryAdapter) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
) ([]domain.ReviewLogEntry, error) {
	return a.logStore.ListByCard(ctx, cardID)
}

func (a *reviewLogRepositoryAdapter) WithTx(tx *sql.Tx) ReviewLogRepository {
	return &reviewLogRepositoryAdapter{logStore: a.logStore.WithTx(tx)}
}

// mapStoreError translates store sentinels into service sentinels.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrCardNotFound) {
		return ErrCardNotFound
	}
	return err
}

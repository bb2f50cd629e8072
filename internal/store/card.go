package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card by ID with a row-level lock, so the
	// scheduling state read inside a transaction cannot be clobbered by a
	// concurrent review of the same card.
	//
	// MUST be called within a transaction (via WithTx); calling it on a
	// plain connection acquires a lock that is released immediately.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser retrieves all cards owned by the given user, ordered by
	// creation time. The scheduling queue and counts are computed from this
	// set in memory.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// ListDueByUser retrieves the user's cards due at or before the given
	// time, ordered by due time.
	ListDueByUser(ctx context.Context, userID uuid.UUID, due time.Time) ([]*domain.Card, error)

	// Update persists the card's current field values, including its full
	// scheduling state. Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist. Review log entries
	// for the card are removed by the schema's ON DELETE CASCADE constraint.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore that runs its operations on the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) CardStore
}

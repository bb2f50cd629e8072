package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
)

// ReviewLogStore defines the interface for review log persistence. The log
// is append-only: entries are created once and never updated or deleted
// directly (removal happens only through the owning card's cascade).
type ReviewLogStore interface {
	// Create appends a new review log entry.
	// Returns validation errors if the entry data is invalid.
	Create(ctx context.Context, entry *domain.ReviewLogEntry) error

	// ListByCard retrieves all entries for a card, most recent first.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)

	// ListByUserSince retrieves the user's entries reviewed at or after the
	// given time, most recent first. Analytics uses this to bound its
	// rolling window at the query instead of loading full history.
	ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.ReviewLogEntry, error)

	// WithTx returns a ReviewLogStore that runs its operations on the
	// provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}

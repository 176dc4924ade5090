package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// ReviewSessionStore persists immutable review records.
type ReviewSessionStore interface {
	// Create inserts a review. Returns ErrCardNotFound when the referenced
	// card does not exist.
	Create(ctx context.Context, review *domain.ReviewSession) error

	// ListByCard returns the reviews of one card, oldest first.
	ListByCard(ctx context.Context, cardID string) ([]*domain.ReviewSession, error)

	// ListByCourseSince returns the reviews of a course's cards recorded at
	// or after since, oldest first.
	ListByCourseSince(ctx context.Context, courseID string, since time.Time) ([]*domain.ReviewSession, error)

	// WithTx returns a ReviewSessionStore bound to tx.
	WithTx(tx *sqlx.Tx) ReviewSessionStore
}

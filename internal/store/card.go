package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// DueCardsQuery selects the cards of one course that are due at Now.
type DueCardsQuery struct {
	CourseID  string
	Now       time.Time
	Limit     int
	CardTypes []domain.CardType // empty means any type
}

// CardSummary aggregates the cards of one course.
type CardSummary struct {
	TotalCards        int     `db:"total_cards"`
	DueCards          int     `db:"due_cards"`
	ReviewedCards     int     `db:"reviewed_cards"`
	AverageDifficulty float64 `db:"average_difficulty"`
	// AverageQuality is the mean of total_quality over cards with at least
	// one review; zero when no card has been reviewed.
	AverageQuality float64 `db:"average_quality"`
}

// CardStore defines the interface for learning card persistence.
type CardStore interface {
	// Create saves a single new card.
	Create(ctx context.Context, card *domain.LearningCard) error

	// CreateMultiple saves several cards. It must run inside a transaction
	// (see WithTx) for the batch to be atomic.
	//
	// Usage example:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
	//       return cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.LearningCard) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id string) (*domain.LearningCard, error)

	// GetDue returns cards with next_review <= Now, oldest due first, ties
	// broken by creation time, at most Limit of them.
	GetDue(ctx context.Context, q DueCardsQuery) ([]*domain.LearningCard, error)

	// UpdateSchedule writes the scheduling and history fields of card.
	// The write only applies while the stored review_count still equals
	// expectedReviewCount; otherwise ErrConflict is returned, or
	// ErrCardNotFound when the card no longer exists.
	UpdateSchedule(ctx context.Context, card *domain.LearningCard, expectedReviewCount int) error

	// Summarize aggregates the course's cards as seen at now.
	Summarize(ctx context.Context, courseID string, now time.Time) (CardSummary, error)

	// WithTx returns a CardStore bound to tx.
	WithTx(tx *sqlx.Tx) CardStore
}

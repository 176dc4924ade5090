package sqlstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

const reviewColumns = `id, card_id, session_id, quality_rating, response_time_ms, reviewed_at,
	previous_interval, previous_ease_factor, previous_repetitions`

// ReviewStore implements store.ReviewSessionStore.
type ReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStore creates a ReviewStore over a database connection or transaction.
func NewReviewStore(db store.DBTX, logger *slog.Logger) *ReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

var _ store.ReviewSessionStore = (*ReviewStore)(nil)

// WithTx implements store.ReviewSessionStore.
func (s *ReviewStore) WithTx(tx *sqlx.Tx) store.ReviewSessionStore {
	return &ReviewStore{db: tx, logger: s.logger}
}

// Create implements store.ReviewSessionStore. Reviews are append-only.
func (s *ReviewStore) Create(ctx context.Context, review *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := *review
	row.ReviewedAt = utc(review.ReviewedAt)

	query := `INSERT INTO review_sessions (` + reviewColumns + `)
		VALUES (:id, :card_id, :session_id, :quality_rating, :response_time_ms, :reviewed_at,
			:previous_interval, :previous_ease_factor, :previous_repetitions)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("review references a missing card",
				slog.String("card_id", review.CardID))
			return store.ErrCardNotFound
		}
		log.Error("failed to create review session",
			slog.String("error", err.Error()),
			slog.String("card_id", review.CardID))
		return store.NewStoreError("review_session", "create", "insert failed", MapError(err))
	}

	log.Debug("review session recorded",
		slog.String("review_id", review.ID),
		slog.String("card_id", review.CardID),
		slog.Int("quality_rating", review.QualityRating))
	return nil
}

// ListByCard implements store.ReviewSessionStore.
func (s *ReviewStore) ListByCard(ctx context.Context, cardID string) ([]*domain.ReviewSession, error) {
	query := s.db.Rebind(`SELECT ` + reviewColumns + ` FROM review_sessions
		WHERE card_id = ?
		ORDER BY reviewed_at ASC, id ASC`)
	return s.list(ctx, "list_by_card", query, cardID)
}

// ListByCourseSince implements store.ReviewSessionStore.
func (s *ReviewStore) ListByCourseSince(
	ctx context.Context,
	courseID string,
	since time.Time,
) ([]*domain.ReviewSession, error) {
	query := s.db.Rebind(`
		SELECT r.id, r.card_id, r.session_id, r.quality_rating, r.response_time_ms, r.reviewed_at,
			r.previous_interval, r.previous_ease_factor, r.previous_repetitions
		FROM review_sessions r
		JOIN learning_cards c ON c.id = r.card_id
		WHERE c.course_id = ? AND r.reviewed_at >= ?
		ORDER BY r.reviewed_at ASC, r.id ASC`)
	return s.list(ctx, "list_by_course", query, courseID, utc(since))
}

func (s *ReviewStore) list(ctx context.Context, op, query string, args ...any) ([]*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	reviews := []*domain.ReviewSession{}
	if err := s.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		log.Error("failed to list review sessions",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError("review_session", op, "select failed", MapError(err))
	}
	for _, r := range reviews {
		r.ReviewedAt = r.ReviewedAt.UTC()
	}
	return reviews, nil
}

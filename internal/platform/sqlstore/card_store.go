package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

const cardColumns = `id, course_id, concept_id, question, answer, card_type, difficulty,
	ease_factor, interval_days, repetitions, next_review, review_count, total_quality,
	context_tags, source_material, created_at, updated_at`

const insertCardQuery = `
	INSERT INTO learning_cards (` + cardColumns + `)
	VALUES (:id, :course_id, :concept_id, :question, :answer, :card_type, :difficulty,
		:ease_factor, :interval_days, :repetitions, :next_review, :review_count, :total_quality,
		:context_tags, :source_material, :created_at, :updated_at)`

// CardStore implements store.CardStore.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a CardStore over a database connection or transaction.
// If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.
func (s *CardStore) WithTx(tx *sqlx.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

// cardRow is a LearningCard with timestamps normalized for writing.
func cardRow(c *domain.LearningCard) domain.LearningCard {
	row := *c
	row.NextReview = utc(c.NextReview)
	row.CreatedAt = utc(c.CreatedAt)
	row.UpdatedAt = utc(c.UpdatedAt)
	if row.ContextTags == nil {
		row.ContextTags = domain.Tags{}
	}
	return row
}

func normalizeCard(c *domain.LearningCard) {
	c.NextReview = c.NextReview.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
}

// Create implements store.CardStore.
func (s *CardStore) Create(ctx context.Context, card *domain.LearningCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID))
		return err
	}

	if _, err := s.db.NamedExecContext(ctx, insertCardQuery, cardRow(card)); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID),
			slog.String("course_id", card.CourseID))
		return store.NewStoreError("card", "create", "insert failed", MapError(err))
	}

	log.Debug("card created",
		slog.String("card_id", card.ID),
		slog.String("course_id", card.CourseID))
	return nil
}

// CreateMultiple implements store.CardStore using a single batch insert.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.LearningCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	rows := make([]domain.LearningCard, 0, len(cards))
	for i, card := range cards {
		if card == nil {
			return fmt.Errorf("%w: card %d is nil", store.ErrInvalidEntity, i)
		}
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int("card_index", i))
			return err
		}
		rows = append(rows, cardRow(card))
	}

	if _, err := s.db.NamedExecContext(ctx, insertCardQuery, rows); err != nil {
		log.Error("failed to create cards",
			slog.String("error", err.Error()),
			slog.Int("card_count", len(cards)))
		return store.NewStoreError("card", "create_multiple", "batch insert failed", MapError(err))
	}

	log.Debug("cards created", slog.Int("card_count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.
func (s *CardStore) GetByID(ctx context.Context, id string) (*domain.LearningCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card domain.LearningCard
	query := s.db.Rebind(`SELECT ` + cardColumns + ` FROM learning_cards WHERE id = ?`)
	if err := s.db.GetContext(ctx, &card, query, id); err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			log.Debug("card not found", slog.String("card_id", id))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id))
		return nil, store.NewStoreError("card", "get", "select failed", mapped)
	}

	normalizeCard(&card)
	return &card, nil
}

// GetDue implements store.CardStore.
func (s *CardStore) GetDue(ctx context.Context, q store.DueCardsQuery) ([]*domain.LearningCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if q.Limit <= 0 {
		return []*domain.LearningCard{}, nil
	}

	query := `SELECT ` + cardColumns + ` FROM learning_cards WHERE course_id = ? AND next_review <= ?`
	args := []any{q.CourseID, utc(q.Now)}

	if len(q.CardTypes) > 0 {
		types := make([]string, len(q.CardTypes))
		for i, t := range q.CardTypes {
			types[i] = string(t)
		}
		query += ` AND card_type IN (?)`
		args = append(args, types)
	}
	query += ` ORDER BY next_review ASC, created_at ASC, id ASC LIMIT ?`
	args = append(args, q.Limit)

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to expand due cards query: %w", err)
	}

	cards := []*domain.LearningCard{}
	if err := s.db.SelectContext(ctx, &cards, s.db.Rebind(expanded), expandedArgs...); err != nil {
		log.Error("failed to get due cards",
			slog.String("error", err.Error()),
			slog.String("course_id", q.CourseID))
		return nil, store.NewStoreError("card", "get_due", "select failed", MapError(err))
	}

	for _, c := range cards {
		normalizeCard(c)
	}

	log.Debug("due cards loaded",
		slog.String("course_id", q.CourseID),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateSchedule implements store.CardStore.
func (s *CardStore) UpdateSchedule(ctx context.Context, card *domain.LearningCard, expectedReviewCount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}

	query := s.db.Rebind(`
		UPDATE learning_cards
		SET difficulty = ?, ease_factor = ?, interval_days = ?, repetitions = ?,
			next_review = ?, review_count = ?, total_quality = ?, updated_at = ?
		WHERE id = ? AND review_count = ?`)

	result, err := s.db.ExecContext(ctx, query,
		card.Difficulty,
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		utc(card.NextReview),
		card.ReviewCount,
		card.TotalQuality,
		utc(card.UpdatedAt),
		card.ID,
		expectedReviewCount,
	)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID))
		return store.NewStoreError("card", "update_schedule", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if !store.IsNotFoundError(err) {
			return store.NewStoreError("card", "update_schedule", "rows affected", err)
		}
		exists, existsErr := s.exists(ctx, card.ID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return store.ErrCardNotFound
		}
		log.Warn("card changed since it was read",
			slog.String("card_id", card.ID),
			slog.Int("expected_review_count", expectedReviewCount))
		return fmt.Errorf("%w: card %s", store.ErrConflict, card.ID)
	}

	return nil
}

func (s *CardStore) exists(ctx context.Context, id string) (bool, error) {
	var n int
	query := s.db.Rebind(`SELECT COUNT(*) FROM learning_cards WHERE id = ?`)
	if err := s.db.GetContext(ctx, &n, query, id); err != nil {
		return false, store.NewStoreError("card", "exists", "count failed", MapError(err))
	}
	return n > 0, nil
}

// Summarize implements store.CardStore.
func (s *CardStore) Summarize(ctx context.Context, courseID string, now time.Time) (store.CardSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.db.Rebind(`
		SELECT
			COUNT(*) AS total_cards,
			COALESCE(SUM(CASE WHEN next_review <= ? THEN 1 ELSE 0 END), 0) AS due_cards,
			COALESCE(SUM(CASE WHEN review_count > 0 THEN 1 ELSE 0 END), 0) AS reviewed_cards,
			COALESCE(AVG(difficulty), 0) AS average_difficulty,
			COALESCE(AVG(CASE WHEN review_count > 0 THEN total_quality END), 0) AS average_quality
		FROM learning_cards
		WHERE course_id = ?`)

	var summary store.CardSummary
	if err := s.db.GetContext(ctx, &summary, query, utc(now), courseID); err != nil {
		log.Error("failed to summarize cards",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID))
		return store.CardSummary{}, store.NewStoreError("card", "summarize", "aggregate failed", MapError(err))
	}
	return summary, nil
}

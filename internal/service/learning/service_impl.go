package learning

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/domain/srs"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db        *sqlx.DB
	cards     store.CardStore
	reviews   store.ReviewSessionStore
	sessions  store.StudySessionStore
	scheduler srs.Service
	extractor generation.ContentExtractor
	clock     Clock
	maxCards  int
	logger    *slog.Logger
}

// CreateCard implements Service.CreateCard.
func (s *serviceImpl) CreateCard(ctx context.Context, p CreateCardParams) (*domain.LearningCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewLearningCard(domain.NewCardParams{
		CourseID:       p.CourseID,
		Question:       p.Question,
		Answer:         p.Answer,
		CardType:       p.CardType,
		ConceptID:      p.ConceptID,
		Tags:           p.Tags,
		SourceMaterial: p.SourceMaterial,
	}, s.clock.Now())
	if err != nil {
		log.Debug("rejected card", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("course_id", card.CourseID))
		return nil, wrapStoreError("create_card", "failed to store card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID),
		slog.String("course_id", card.CourseID),
		slog.String("card_type", string(card.CardType)),
		slog.Float64("difficulty", card.Difficulty))
	return card, nil
}

// GetCard implements Service.GetCard.
func (s *serviceImpl) GetCard(ctx context.Context, cardID string) (*domain.LearningCard, error) {
	if strings.TrimSpace(cardID) == "" {
		return nil, domain.NewValidationError("card_id", "cannot be empty", domain.ErrInvalidID)
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, wrapStoreError("get_card", "failed to load card", err)
	}
	return card, nil
}

// GetDueCards implements Service.GetDueCards.
func (s *serviceImpl) GetDueCards(ctx context.Context, p DueCardsParams) ([]*domain.LearningCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	courseID := strings.TrimSpace(p.CourseID)
	if courseID == "" {
		return nil, domain.NewValidationError("course_id", "cannot be empty", domain.ErrInvalidID)
	}
	if p.Limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive", nil)
	}
	for _, t := range p.CardTypes {
		if !t.Valid() {
			return nil, domain.NewValidationError("card_type", "unknown card type "+string(t), domain.ErrInvalidCardType)
		}
	}

	cards, err := s.cards.GetDue(ctx, store.DueCardsQuery{
		CourseID:  courseID,
		Now:       s.clock.Now(),
		Limit:     p.Limit,
		CardTypes: p.CardTypes,
	})
	if err != nil {
		log.Error("failed to load due cards",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID))
		return nil, wrapStoreError("get_due_cards", "failed to load due cards", err)
	}
	return cards, nil
}

// ReviewCard implements Service.ReviewCard.
func (s *serviceImpl) ReviewCard(ctx context.Context, p ReviewParams) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(p.CardID) == "" {
		return nil, domain.NewValidationError("card_id", "cannot be empty", domain.ErrInvalidID)
	}
	if err := domain.ValidateReviewOutcome(p.QualityRating, p.ResponseTimeMs); err != nil {
		log.Debug("rejected review",
			slog.String("card_id", p.CardID),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := s.clock.Now().UTC()
	var result *ReviewResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		txCards := s.cards.WithTx(tx)
		txReviews := s.reviews.WithTx(tx)

		card, err := txCards.GetByID(ctx, p.CardID)
		if err != nil {
			return err
		}

		review, err := domain.NewReviewSession(card, p.SessionID, p.QualityRating, p.ResponseTimeMs, now)
		if err != nil {
			return err
		}

		next := s.scheduler.Schedule(srs.StateOf(card), srs.Outcome{
			QualityRating:  p.QualityRating,
			ResponseTimeMs: p.ResponseTimeMs,
		})

		previousCount := card.ReviewCount
		card.TotalQuality = (card.TotalQuality*float64(previousCount) + float64(p.QualityRating)) /
			float64(previousCount+1)
		card.ReviewCount = previousCount + 1
		card.Difficulty = s.scheduler.AdjustDifficulty(card.Difficulty, p.QualityRating)
		card.EaseFactor = next.EaseFactor
		card.IntervalDays = next.IntervalDays
		card.Repetitions = next.Repetitions
		card.NextReview = now.AddDate(0, 0, next.IntervalDays)
		card.UpdatedAt = now

		if err := txCards.UpdateSchedule(ctx, card, previousCount); err != nil {
			return err
		}
		if err := txReviews.Create(ctx, review); err != nil {
			return err
		}

		result = &ReviewResult{
			CardID:          card.ID,
			ReviewID:        review.ID,
			SessionID:       review.SessionID,
			QualityRating:   p.QualityRating,
			AdjustedQuality: next.AdjustedQuality,
			Passed:          next.Passed,
			EaseFactor:      card.EaseFactor,
			IntervalDays:    card.IntervalDays,
			Repetitions:     card.Repetitions,
			Difficulty:      card.Difficulty,
			NextReview:      card.NextReview,
			ReviewCount:     card.ReviewCount,
			TotalQuality:    card.TotalQuality,
		}
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			log.Warn("card not found for review", slog.String("card_id", p.CardID))
		} else {
			log.Error("failed to record review",
				slog.String("error", err.Error()),
				slog.String("card_id", p.CardID))
		}
		return nil, wrapStoreError("review_card", "failed to record review", err)
	}

	log.Info("review recorded",
		slog.String("card_id", result.CardID),
		slog.String("session_id", result.SessionID),
		slog.Int("quality_rating", result.QualityRating),
		slog.Int("adjusted_quality", result.AdjustedQuality),
		slog.Float64("ease_factor", result.EaseFactor),
		slog.Int("interval_days", result.IntervalDays),
		slog.Time("next_review", result.NextReview))
	return result, nil
}

// ListReviews implements Service.ListReviews.
func (s *serviceImpl) ListReviews(ctx context.Context, cardID string) ([]*domain.ReviewSession, error) {
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByCard(ctx, cardID)
	if err != nil {
		return nil, wrapStoreError("list_reviews", "failed to load reviews", err)
	}
	return reviews, nil
}

// RecordStudySession implements Service.RecordStudySession.
func (s *serviceImpl) RecordStudySession(
	ctx context.Context,
	p StudySessionParams,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	startedAt := p.StartedAt
	if startedAt.IsZero() {
		startedAt = s.clock.Now()
	}

	session, err := domain.NewStudySession(
		p.CourseID,
		startedAt,
		p.EndedAt,
		p.CardsStudied,
		p.CardsCorrect,
		p.AverageResponseTimeMs,
		p.SessionType,
	)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error("failed to record study session",
			slog.String("error", err.Error()),
			slog.String("course_id", session.CourseID))
		return nil, wrapStoreError("record_study_session", "failed to store study session", err)
	}

	log.Debug("study session recorded",
		slog.String("session_id", session.ID),
		slog.String("course_id", session.CourseID),
		slog.Int("cards_studied", session.CardsStudied))
	return session, nil
}

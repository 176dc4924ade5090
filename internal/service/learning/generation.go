package learning

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

// GenerateCardsFromContent implements Service.GenerateCardsFromContent.
func (s *serviceImpl) GenerateCardsFromContent(
	ctx context.Context,
	p GenerateParams,
) ([]*domain.LearningCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	courseID := strings.TrimSpace(p.CourseID)
	if courseID == "" {
		return nil, domain.NewValidationError("course_id", "cannot be empty", domain.ErrInvalidID)
	}
	if strings.TrimSpace(p.Content) == "" {
		return nil, domain.NewValidationError("content", "cannot be empty", domain.ErrEmptyContent)
	}

	drafts, err := s.extractor.Extract(ctx, p.Content)
	if err != nil {
		log.Error("content extraction failed",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID))
		return nil, NewServiceError("generate_cards", "content extraction failed", err)
	}
	drafts = generation.Clean(drafts, s.maxCards)

	now := s.clock.Now()
	cards := make([]*domain.LearningCard, 0, len(drafts))
	for _, d := range drafts {
		card, err := domain.NewLearningCard(domain.NewCardParams{
			CourseID:       courseID,
			Question:       d.Question,
			Answer:         d.Answer,
			CardType:       domain.CardTypeAutoGenerated,
			Tags:           d.Tags,
			SourceMaterial: p.SourceMaterial,
		}, now)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		log.Info("no cards found in content", slog.String("course_id", courseID))
		return cards, nil
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to store generated cards",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID),
			slog.Int("card_count", len(cards)))
		return nil, wrapStoreError("generate_cards", "failed to store generated cards", err)
	}

	log.Info("generated cards stored",
		slog.String("course_id", courseID),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

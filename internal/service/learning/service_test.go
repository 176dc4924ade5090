package learning_test

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
	"github.com/phrazzld/scry-tutor/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()
	_, err := learning.NewService(learning.Dependencies{})
	assert.True(t, domain.IsValidationError(err))
}

func TestCreateCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	card := f.createCard(t, "What is the capital of France?", "Paris")

	assert.Equal(t, domain.CardTypeBasic, card.CardType)
	assert.Equal(t, 0.3, card.Difficulty)
	assert.Equal(t, 2.5, card.EaseFactor)
	assert.Equal(t, 1, card.IntervalDays)
	assert.Equal(t, 0, card.Repetitions)
	assert.True(t, card.NextReview.Equal(f.clock.Now()))

	stored, err := f.svc.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.Question, stored.Question)

	_, err = f.svc.CreateCard(ctx, learning.CreateCardParams{CourseID: f.courseID, Question: "q"})
	assert.True(t, learning.IsValidation(err))

	_, err = f.svc.GetCard(ctx, "missing")
	assert.True(t, learning.IsNotFound(err))
}

func TestReviewCardScenarios(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	card := f.createCard(t, "What is the capital of France?", "Paris")

	// A perfect, fast answer on a fresh card.
	first := f.review(t, card.ID, 5, 1500)
	assert.Equal(t, 5, first.AdjustedQuality)
	assert.True(t, first.Passed)
	assert.Equal(t, 1, first.Repetitions)
	assert.Equal(t, 1, first.IntervalDays)
	assert.Equal(t, 2.5, first.EaseFactor, "2.5 + 0.1 is clamped to the maximum")
	assert.InDelta(t, 0.25, first.Difficulty, 1e-9)
	assert.True(t, first.NextReview.Equal(f.clock.Now().AddDate(0, 0, 1)))
	assert.NotEmpty(t, first.SessionID)

	f.clock.Advance(24 * time.Hour)
	second := f.review(t, card.ID, 5, 1500)
	assert.Equal(t, 2, second.Repetitions)
	assert.Equal(t, 6, second.IntervalDays)
	assert.Equal(t, 2.5, second.EaseFactor)

	f.clock.Advance(6 * 24 * time.Hour)
	third := f.review(t, card.ID, 0, 9000)
	assert.False(t, third.Passed)
	assert.Equal(t, 0, third.Repetitions)
	assert.Equal(t, 1, third.IntervalDays)
	assert.InDelta(t, 2.3, third.EaseFactor, 1e-9)
	assert.InDelta(t, 0.3, third.Difficulty, 1e-9)

	stored, err := f.svc.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.ReviewCount)
	assert.InDelta(t, 10.0/3.0, stored.TotalQuality, 1e-9)
	assert.Equal(t, 0, stored.Repetitions)
	assert.True(t, stored.NextReview.Equal(f.clock.Now().AddDate(0, 0, 1)))

	history, err := f.svc.ListReviews(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int{5, 5, 0}, []int{history[0].QualityRating, history[1].QualityRating, history[2].QualityRating})
	assert.Equal(t, 6, history[2].PreviousInterval)
	assert.Equal(t, 2.5, history[2].PreviousEaseFactor)
	assert.Equal(t, 2, history[2].PreviousRepetitions)

	// The next success restarts from the first fixed interval.
	f.clock.Advance(24 * time.Hour)
	fourth := f.review(t, card.ID, 4, 5000)
	assert.Equal(t, 1, fourth.Repetitions)
	assert.Equal(t, 1, fourth.IntervalDays)
}

func TestReviewCardKeepsSessionID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	card := f.createCard(t, "2 + 2?", "4")

	result, err := f.svc.ReviewCard(context.Background(), learning.ReviewParams{
		CardID:         card.ID,
		QualityRating:  4,
		ResponseTimeMs: 2000,
		SessionID:      "evening-sitting",
	})
	require.NoError(t, err)
	assert.Equal(t, "evening-sitting", result.SessionID)
}

func TestReviewCardUnknownCardLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	card := f.createCard(t, "What is the capital of Spain?", "Madrid")

	_, err := f.svc.ReviewCard(ctx, learning.ReviewParams{CardID: "no-such-card", QualityRating: 4})
	require.Error(t, err)
	assert.True(t, learning.IsNotFound(err))
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.False(t, learning.IsStorageFailure(err))

	stored, err := f.svc.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ReviewCount)

	reviews, err := f.reviews.ListByCourseSince(ctx, f.courseID, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewCardValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	card := f.createCard(t, "What is the capital of Italy?", "Rome")

	testCases := []struct {
		name   string
		params learning.ReviewParams
		cause  error
	}{
		{"quality below range", learning.ReviewParams{CardID: card.ID, QualityRating: -1}, domain.ErrInvalidQualityRating},
		{"quality above range", learning.ReviewParams{CardID: card.ID, QualityRating: 6}, domain.ErrInvalidQualityRating},
		{"negative latency", learning.ReviewParams{CardID: card.ID, QualityRating: 3, ResponseTimeMs: -1}, domain.ErrInvalidResponseTime},
		{"missing card id", learning.ReviewParams{QualityRating: 3}, domain.ErrInvalidID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ReviewCard(context.Background(), tc.params)
			assert.True(t, learning.IsValidation(err))
			assert.ErrorIs(t, err, tc.cause)
		})
	}

	stored, err := f.svc.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ReviewCount)
}

func TestReviewCardIsAtomic(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		opt  fixtureOption
	}{
		{"review insert fails", withReviews(func(s store.ReviewSessionStore) store.ReviewSessionStore {
			return failingReviewStore{ReviewSessionStore: s}
		})},
		{"card update fails", withCards(func(s store.CardStore) store.CardStore {
			return failingCardStore{CardStore: s}
		})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, tc.opt)
			ctx := context.Background()

			card, err := domain.NewLearningCard(domain.NewCardParams{
				CourseID: f.courseID,
				Question: "What is the capital of Portugal?",
				Answer:   "Lisbon",
			}, f.clock.Now())
			require.NoError(t, err)
			require.NoError(t, f.cards.Create(ctx, card))

			_, err = f.svc.ReviewCard(ctx, learning.ReviewParams{CardID: card.ID, QualityRating: 5, ResponseTimeMs: 1000})
			require.Error(t, err)
			assert.True(t, learning.IsStorageFailure(err))
			assert.ErrorIs(t, err, errInjected)

			var serviceErr *learning.ServiceError
			require.ErrorAs(t, err, &serviceErr)
			assert.Equal(t, "review_card", serviceErr.Operation)

			stored, err := f.cards.GetByID(ctx, card.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, stored.ReviewCount)
			assert.Equal(t, 0, stored.Repetitions)
			assert.Equal(t, 2.5, stored.EaseFactor)
			assert.True(t, stored.NextReview.Equal(card.NextReview))

			reviews, err := f.reviews.ListByCard(ctx, card.ID)
			require.NoError(t, err)
			assert.Empty(t, reviews)
		})
	}
}

func TestReviewCardDetectsConcurrentReview(t *testing.T) {
	t.Parallel()
	f := newFixture(t, withCards(func(s store.CardStore) store.CardStore {
		return staleCardStore{CardStore: s}
	}))
	ctx := context.Background()
	card := f.createCard(t, "What is the capital of Greece?", "Athens")

	f.review(t, card.ID, 4, 2000)

	_, err := f.svc.ReviewCard(ctx, learning.ReviewParams{CardID: card.ID, QualityRating: 4, ResponseTimeMs: 2000})
	require.Error(t, err)
	assert.True(t, learning.IsConflict(err))
	assert.ErrorIs(t, err, store.ErrConflict)

	reviews, err := f.reviews.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestTotalQualityIsRunningAverage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	card := f.createCard(t, "What is the capital of Norway?", "Oslo")

	ratings := []int{3, 5, 1, 4, 0, 5, 2}
	sum := 0
	for i, q := range ratings {
		f.clock.Advance(time.Hour)
		result := f.review(t, card.ID, q, 4000)
		sum += q
		assert.Equal(t, i+1, result.ReviewCount)
		assert.InDelta(t, float64(sum)/float64(i+1), result.TotalQuality, 1e-9)
		assert.GreaterOrEqual(t, result.EaseFactor, domain.MinEaseFactor)
		assert.LessOrEqual(t, result.EaseFactor, domain.MaxEaseFactor)
		assert.GreaterOrEqual(t, result.Difficulty, 0.0)
		assert.LessOrEqual(t, result.Difficulty, 1.0)
	}
}

func TestGetDueCardsReturnsOnlyDueCardsOldestFirst(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	var due []string
	for i := 0; i < 10; i++ {
		card, err := domain.NewLearningCard(domain.NewCardParams{
			CourseID: f.courseID,
			Question: "Question",
			Answer:   "Answer",
		}, now)
		require.NoError(t, err)

		switch i {
		case 2:
			card.NextReview = now.Add(-3 * time.Hour)
		case 5:
			card.NextReview = now.Add(-48 * time.Hour)
		case 7:
			card.NextReview = now
		default:
			card.NextReview = now.Add(time.Duration(i+1) * time.Hour)
		}
		require.NoError(t, f.cards.Create(ctx, card))
		if i == 5 {
			due = append([]string{card.ID}, due...)
		} else if i == 2 || i == 7 {
			due = append(due, card.ID)
		}
	}

	cards, err := f.svc.GetDueCards(ctx, learning.DueCardsParams{CourseID: f.courseID, Limit: 5})
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for i, c := range cards {
		assert.Equal(t, due[i], c.ID)
	}

	limited, err := f.svc.GetDueCards(ctx, learning.DueCardsParams{CourseID: f.courseID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	filtered, err := f.svc.GetDueCards(ctx, learning.DueCardsParams{
		CourseID:  f.courseID,
		Limit:     5,
		CardTypes: []domain.CardType{domain.CardTypeCloze},
	})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestGetDueCardsValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetDueCards(ctx, learning.DueCardsParams{CourseID: f.courseID, Limit: 0})
	assert.True(t, learning.IsValidation(err))

	_, err = f.svc.GetDueCards(ctx, learning.DueCardsParams{Limit: 5})
	assert.True(t, learning.IsValidation(err))

	_, err = f.svc.GetDueCards(ctx, learning.DueCardsParams{
		CourseID:  f.courseID,
		Limit:     5,
		CardTypes: []domain.CardType{"essay"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCardType)
}

func TestRecordStudySession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	started := f.clock.Now().Add(-time.Hour)
	ended := started.Add(25 * time.Minute)
	session, err := f.svc.RecordStudySession(ctx, learning.StudySessionParams{
		CourseID:     f.courseID,
		StartedAt:    started,
		EndedAt:      &ended,
		CardsStudied: 12,
		CardsCorrect: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStudySessionType, session.SessionType)

	_, err = f.svc.RecordStudySession(ctx, learning.StudySessionParams{
		CourseID:     f.courseID,
		CardsStudied: 1,
		CardsCorrect: 2,
	})
	assert.True(t, learning.IsValidation(err))
}

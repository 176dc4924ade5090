package learning_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/domain/srs"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/sqlstore"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
	"github.com/phrazzld/scry-tutor/internal/store"
	"github.com/phrazzld/scry-tutor/internal/testdb"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected storage fault")

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t.UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db       *sqlx.DB
	clock    *testClock
	cards    store.CardStore
	reviews  store.ReviewSessionStore
	sessions store.StudySessionStore
	svc      learning.Service
	courseID string
}

type fixtureOption func(*learning.Dependencies)

func withCards(wrap func(store.CardStore) store.CardStore) fixtureOption {
	return func(d *learning.Dependencies) { d.Cards = wrap(d.Cards) }
}

func withReviews(wrap func(store.ReviewSessionStore) store.ReviewSessionStore) fixtureOption {
	return func(d *learning.Dependencies) { d.Reviews = wrap(d.Reviews) }
}

func withExtractor(e generation.ContentExtractor) fixtureOption {
	return func(d *learning.Dependencies) { d.Extractor = e }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	db := testdb.Open(t)
	f := &fixture{
		db:       db,
		clock:    newTestClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)),
		cards:    sqlstore.NewCardStore(db, nil),
		reviews:  sqlstore.NewReviewStore(db, nil),
		sessions: sqlstore.NewStudySessionStore(db, nil),
		courseID: "course-" + uuid.NewString(),
	}

	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	deps := learning.Dependencies{
		DB:        db,
		Cards:     f.cards,
		Reviews:   f.reviews,
		Sessions:  f.sessions,
		Scheduler: scheduler,
		Clock:     f.clock,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	f.svc, err = learning.NewService(deps)
	require.NoError(t, err)
	return f
}

func (f *fixture) createCard(t *testing.T, question, answer string) *domain.LearningCard {
	t.Helper()
	card, err := f.svc.CreateCard(context.Background(), learning.CreateCardParams{
		CourseID: f.courseID,
		Question: question,
		Answer:   answer,
	})
	require.NoError(t, err)
	return card
}

func (f *fixture) review(t *testing.T, cardID string, quality int, latency int64) *learning.ReviewResult {
	t.Helper()
	result, err := f.svc.ReviewCard(context.Background(), learning.ReviewParams{
		CardID:         cardID,
		QualityRating:  quality,
		ResponseTimeMs: latency,
	})
	require.NoError(t, err)
	return result
}

// failingCardStore fails UpdateSchedule, also when bound to a transaction.
type failingCardStore struct {
	store.CardStore
}

func (s failingCardStore) UpdateSchedule(context.Context, *domain.LearningCard, int) error {
	return errInjected
}

func (s failingCardStore) CreateMultiple(context.Context, []*domain.LearningCard) error {
	return errInjected
}

func (s failingCardStore) WithTx(tx *sqlx.Tx) store.CardStore {
	return failingCardStore{CardStore: s.CardStore.WithTx(tx)}
}

// staleCardStore serves cards as they were before any review.
type staleCardStore struct {
	store.CardStore
}

func (s staleCardStore) GetByID(ctx context.Context, id string) (*domain.LearningCard, error) {
	card, err := s.CardStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	card.ReviewCount = 0
	return card, nil
}

func (s staleCardStore) WithTx(tx *sqlx.Tx) store.CardStore {
	return staleCardStore{CardStore: s.CardStore.WithTx(tx)}
}

// failingReviewStore fails every insert.
type failingReviewStore struct {
	store.ReviewSessionStore
}

func (s failingReviewStore) Create(context.Context, *domain.ReviewSession) error {
	return errInjected
}

func (s failingReviewStore) WithTx(tx *sqlx.Tx) store.ReviewSessionStore {
	return failingReviewStore{ReviewSessionStore: s.ReviewSessionStore.WithTx(tx)}
}

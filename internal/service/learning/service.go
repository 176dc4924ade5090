package learning

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/domain/srs"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/store"
)

// Analytics window bounds, in days.
const (
	DefaultAnalyticsDays       = 30
	MaxAnalyticsDays           = 3650
	RecommendationWindowDays   = 14
	DefaultDueCardsLimit       = 20
	DefaultMaxGeneratedPerCall = 50
)

// CreateCardParams is the content of a card to create.
type CreateCardParams struct {
	CourseID       string          `json:"course_id"`
	Question       string          `json:"question"`
	Answer         string          `json:"answer"`
	CardType       domain.CardType `json:"card_type"`
	ConceptID      *string         `json:"concept_id,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	SourceMaterial *string         `json:"source_material,omitempty"`
}

// DueCardsParams selects due cards of a course.
type DueCardsParams struct {
	CourseID  string
	Limit     int
	CardTypes []domain.CardType
}

// ReviewParams is one answer given by the learner.
type ReviewParams struct {
	CardID         string `json:"card_id"`
	QualityRating  int    `json:"quality_rating"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	SessionID      string `json:"session_id,omitempty"`
}

// ReviewResult is the scheduling summary after a review was recorded.
type ReviewResult struct {
	CardID          string    `json:"card_id"`
	ReviewID        string    `json:"review_id"`
	SessionID       string    `json:"session_id"`
	QualityRating   int       `json:"quality_rating"`
	AdjustedQuality int       `json:"adjusted_quality"`
	Passed          bool      `json:"passed"`
	EaseFactor      float64   `json:"ease_factor"`
	IntervalDays    int       `json:"interval_days"`
	Repetitions     int       `json:"repetitions"`
	Difficulty      float64   `json:"difficulty"`
	NextReview      time.Time `json:"next_review"`
	ReviewCount     int       `json:"review_count"`
	TotalQuality    float64   `json:"total_quality"`
}

// StudySessionParams describes a finished or ongoing study sitting.
type StudySessionParams struct {
	CourseID              string     `json:"course_id"`
	StartedAt             time.Time  `json:"started_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	CardsStudied          int        `json:"cards_studied"`
	CardsCorrect          int        `json:"cards_correct"`
	AverageResponseTimeMs float64    `json:"average_response_time_ms"`
	SessionType           string     `json:"session_type,omitempty"`
}

// GenerateParams is study material to turn into cards.
type GenerateParams struct {
	CourseID       string  `json:"course_id"`
	Content        string  `json:"content"`
	SourceMaterial *string `json:"source_material,omitempty"`
}

// Service is the spaced repetition orchestrator.
type Service interface {
	// CreateCard stores a new card that is due immediately.
	CreateCard(ctx context.Context, p CreateCardParams) (*domain.LearningCard, error)

	// GetCard returns one card. Unknown ids fail with store.ErrCardNotFound.
	GetCard(ctx context.Context, cardID string) (*domain.LearningCard, error)

	// GetDueCards returns the course's cards due now, oldest due first.
	GetDueCards(ctx context.Context, p DueCardsParams) ([]*domain.LearningCard, error)

	// ReviewCard applies one review to a card. The card update and the
	// review record commit together or not at all.
	ReviewCard(ctx context.Context, p ReviewParams) (*ReviewResult, error)

	// ListReviews returns the review history of a card, oldest first.
	ListReviews(ctx context.Context, cardID string) ([]*domain.ReviewSession, error)

	// RecordStudySession stores a study session aggregate.
	RecordStudySession(ctx context.Context, p StudySessionParams) (*domain.StudySession, error)

	// GetLearningAnalytics reports on a course over the trailing days.
	GetLearningAnalytics(ctx context.Context, courseID string, days int) (*domain.LearningAnalytics, error)

	// GetStudyRecommendations derives advice from the last two weeks.
	GetStudyRecommendations(ctx context.Context, courseID string) (*domain.StudyRecommendations, error)

	// GenerateCardsFromContent extracts cards from content and stores all of
	// them in one transaction. It returns the new cards.
	GenerateCardsFromContent(ctx context.Context, p GenerateParams) ([]*domain.LearningCard, error)
}

// Dependencies are the collaborators of the learning service. DB, Cards,
// Reviews, Sessions and Scheduler are required; Extractor defaults to the
// heuristic extractor, Clock to SystemClock and Logger to slog.Default().
type Dependencies struct {
	DB        *sqlx.DB
	Cards     store.CardStore
	Reviews   store.ReviewSessionStore
	Sessions  store.StudySessionStore
	Scheduler srs.Service
	Extractor generation.ContentExtractor
	Clock     Clock
	Logger    *slog.Logger

	// MaxGeneratedCards caps how many drafts one generation call persists.
	MaxGeneratedCards int
}

// NewService creates a learning Service.
// It returns an error if any of the required dependencies are nil.
func NewService(deps Dependencies) (Service, error) {
	if deps.DB == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if deps.Cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if deps.Reviews == nil {
		return nil, domain.NewValidationError("reviews", "cannot be nil", domain.ErrValidation)
	}
	if deps.Sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if deps.Scheduler == nil {
		return nil, domain.NewValidationError("scheduler", "cannot be nil", domain.ErrValidation)
	}

	if deps.MaxGeneratedCards <= 0 {
		deps.MaxGeneratedCards = DefaultMaxGeneratedPerCall
	}
	if deps.Extractor == nil {
		deps.Extractor = generation.NewHeuristicExtractor(deps.MaxGeneratedCards)
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &serviceImpl{
		db:        deps.DB,
		cards:     deps.Cards,
		reviews:   deps.Reviews,
		sessions:  deps.Sessions,
		scheduler: deps.Scheduler,
		extractor: deps.Extractor,
		clock:     deps.Clock,
		maxCards:  deps.MaxGeneratedCards,
		logger:    deps.Logger.With(slog.String("component", "learning_service")),
	}, nil
}

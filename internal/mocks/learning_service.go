package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
)

// MockLearningService implements learning.Service for testing. Methods
// without a custom function return the zero value and Err.
type MockLearningService struct {
	CreateCardFn               func(ctx context.Context, p learning.CreateCardParams) (*domain.LearningCard, error)
	GetCardFn                  func(ctx context.Context, cardID string) (*domain.LearningCard, error)
	GetDueCardsFn              func(ctx context.Context, p learning.DueCardsParams) ([]*domain.LearningCard, error)
	ReviewCardFn               func(ctx context.Context, p learning.ReviewParams) (*learning.ReviewResult, error)
	ListReviewsFn              func(ctx context.Context, cardID string) ([]*domain.ReviewSession, error)
	RecordStudySessionFn       func(ctx context.Context, p learning.StudySessionParams) (*domain.StudySession, error)
	GetLearningAnalyticsFn     func(ctx context.Context, courseID string, days int) (*domain.LearningAnalytics, error)
	GetStudyRecommendationsFn  func(ctx context.Context, courseID string) (*domain.StudyRecommendations, error)
	GenerateCardsFromContentFn func(ctx context.Context, p learning.GenerateParams) ([]*domain.LearningCard, error)

	// Default error for methods without a custom function
	Err error

	// Call tracking for verification, keyed by method name
	calls struct {
		mu   sync.Mutex
		args map[string][]interface{}
	}
}

var _ learning.Service = (*MockLearningService)(nil)

func (m *MockLearningService) record(method string, arg interface{}) {
	m.calls.mu.Lock()
	defer m.calls.mu.Unlock()
	if m.calls.args == nil {
		m.calls.args = make(map[string][]interface{})
	}
	m.calls.args[method] = append(m.calls.args[method], arg)
}

// CallCount returns how many times method was called.
func (m *MockLearningService) CallCount(method string) int {
	m.calls.mu.Lock()
	defer m.calls.mu.Unlock()
	return len(m.calls.args[method])
}

// LastArg returns the argument of the most recent call to method, or nil.
// For GetLearningAnalytics it is an AnalyticsCall.
func (m *MockLearningService) LastArg(method string) interface{} {
	m.calls.mu.Lock()
	defer m.calls.mu.Unlock()
	args := m.calls.args[method]
	if len(args) == 0 {
		return nil
	}
	return args[len(args)-1]
}

// AnalyticsCall records the arguments of a GetLearningAnalytics call.
type AnalyticsCall struct {
	CourseID string
	Days     int
}

// CreateCard implements learning.Service
func (m *MockLearningService) CreateCard(ctx context.Context, p learning.CreateCardParams) (*domain.LearningCard, error) {
	m.record("CreateCard", p)
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, p)
	}
	return nil, m.Err
}

// GetCard implements learning.Service
func (m *MockLearningService) GetCard(ctx context.Context, cardID string) (*domain.LearningCard, error) {
	m.record("GetCard", cardID)
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, cardID)
	}
	return nil, m.Err
}

// GetDueCards implements learning.Service
func (m *MockLearningService) GetDueCards(ctx context.Context, p learning.DueCardsParams) ([]*domain.LearningCard, error) {
	m.record("GetDueCards", p)
	if m.GetDueCardsFn != nil {
		return m.GetDueCardsFn(ctx, p)
	}
	return nil, m.Err
}

// ReviewCard implements learning.Service
func (m *MockLearningService) ReviewCard(ctx context.Context, p learning.ReviewParams) (*learning.ReviewResult, error) {
	m.record("ReviewCard", p)
	if m.ReviewCardFn != nil {
		return m.ReviewCardFn(ctx, p)
	}
	return nil, m.Err
}

// ListReviews implements learning.Service
func (m *MockLearningService) ListReviews(ctx context.Context, cardID string) ([]*domain.ReviewSession, error) {
	m.record("ListReviews", cardID)
	if m.ListReviewsFn != nil {
		return m.ListReviewsFn(ctx, cardID)
	}
	return nil, m.Err
}

// RecordStudySession implements learning.Service
func (m *MockLearningService) RecordStudySession(
	ctx context.Context,
	p learning.StudySessionParams,
) (*domain.StudySession, error) {
	m.record("RecordStudySession", p)
	if m.RecordStudySessionFn != nil {
		return m.RecordStudySessionFn(ctx, p)
	}
	return nil, m.Err
}

// GetLearningAnalytics implements learning.Service
func (m *MockLearningService) GetLearningAnalytics(
	ctx context.Context,
	courseID string,
	days int,
) (*domain.LearningAnalytics, error) {
	m.record("GetLearningAnalytics", AnalyticsCall{CourseID: courseID, Days: days})
	if m.GetLearningAnalyticsFn != nil {
		return m.GetLearningAnalyticsFn(ctx, courseID, days)
	}
	return nil, m.Err
}

// GetStudyRecommendations implements learning.Service
func (m *MockLearningService) GetStudyRecommendations(
	ctx context.Context,
	courseID string,
) (*domain.StudyRecommendations, error) {
	m.record("GetStudyRecommendations", courseID)
	if m.GetStudyRecommendationsFn != nil {
		return m.GetStudyRecommendationsFn(ctx, courseID)
	}
	return nil, m.Err
}

// GenerateCardsFromContent implements learning.Service
func (m *MockLearningService) GenerateCardsFromContent(
	ctx context.Context,
	p learning.GenerateParams,
) ([]*domain.LearningCard, error) {
	m.record("GenerateCardsFromContent", p)
	if m.GenerateCardsFromContentFn != nil {
		return m.GenerateCardsFromContentFn(ctx, p)
	}
	return nil, m.Err
}

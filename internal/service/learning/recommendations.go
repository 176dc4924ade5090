package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// Recommendation thresholds.
const (
	LowAccuracy           = 0.7
	HighAccuracy          = 0.9
	SlowResponseMs        = 8000
	FastResponseMs        = 5000
	DueBacklogThreshold   = 20
	SmallDeckThreshold    = 50
	StrugglingSessionSize = 15
	ExcellingSessionSize  = 30
	DefaultSessionSize    = 20
)

// GetStudyRecommendations implements Service.GetStudyRecommendations.
func (s *serviceImpl) GetStudyRecommendations(
	ctx context.Context,
	courseID string,
) (*domain.StudyRecommendations, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, domain.NewValidationError("course_id", "cannot be empty", domain.ErrInvalidID)
	}

	report, err := s.analytics(ctx, courseID, RecommendationWindowDays)
	if err != nil {
		return nil, err
	}
	return Recommend(report), nil
}

// Recommend applies the study advice rules to an analytics report.
// Accuracy and latency rules only fire once the window holds reviews.
func Recommend(a *domain.LearningAnalytics) *domain.StudyRecommendations {
	out := &domain.StudyRecommendations{
		CourseID:             a.CourseID,
		Recommendations:      []domain.Recommendation{},
		SuggestedSessionSize: DefaultSessionSize,
		BasedOn:              *a,
	}

	hasReviews := a.TotalReviews > 0
	struggling := hasReviews && a.Accuracy < LowAccuracy
	slow := hasReviews && a.AverageResponseTimeMs > SlowResponseMs

	if struggling {
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Kind: domain.RecommendationFocusFundamentals,
			Message: fmt.Sprintf(
				"Accuracy is %.0f%% over the last %d days. Focus on the fundamentals before adding new material.",
				a.Accuracy*100, a.PeriodDays),
		})
	}
	if slow {
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Kind: domain.RecommendationRecallFaster,
			Message: fmt.Sprintf(
				"Answers take %.1f seconds on average. Practice recalling the answer before revealing it.",
				a.AverageResponseTimeMs/1000),
		})
	}
	if a.DueCards > DueBacklogThreshold {
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Kind: domain.RecommendationShorterSessions,
			Message: fmt.Sprintf(
				"%d cards are due. Shorter, more frequent sessions will clear the backlog.", a.DueCards),
		})
	}
	if a.TotalCards < SmallDeckThreshold {
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Kind: domain.RecommendationAddCards,
			Message: fmt.Sprintf(
				"The course has %d cards. Add more cards to cover the material.", a.TotalCards),
		})
	}

	switch {
	case struggling || slow:
		out.SuggestedSessionSize = StrugglingSessionSize
	case hasReviews && a.Accuracy > HighAccuracy && a.AverageResponseTimeMs < FastResponseMs:
		out.SuggestedSessionSize = ExcellingSessionSize
	}

	switch {
	case a.DueCards > 0:
		out.NextFocus = domain.FocusDueCards
	case struggling:
		out.NextFocus = domain.FocusWeakReview
	default:
		out.NextFocus = domain.FocusNewCards
	}

	return out
}

package learning

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
)

const curveDateLayout = "2006-01-02"

// GetLearningAnalytics implements Service.GetLearningAnalytics.
func (s *serviceImpl) GetLearningAnalytics(
	ctx context.Context,
	courseID string,
	days int,
) (*domain.LearningAnalytics, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, domain.NewValidationError("course_id", "cannot be empty", domain.ErrInvalidID)
	}
	if days < 1 || days > MaxAnalyticsDays {
		return nil, domain.NewValidationError("days", "must be between 1 and 3650", nil)
	}
	return s.analytics(ctx, courseID, days)
}

func (s *serviceImpl) analytics(ctx context.Context, courseID string, days int) (*domain.LearningAnalytics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now().UTC()
	since := now.AddDate(0, 0, -days)

	summary, err := s.cards.Summarize(ctx, courseID, now)
	if err != nil {
		return nil, wrapStoreError("get_learning_analytics", "failed to summarize cards", err)
	}

	reviews, err := s.reviews.ListByCourseSince(ctx, courseID, since)
	if err != nil {
		return nil, wrapStoreError("get_learning_analytics", "failed to load reviews", err)
	}

	sessions, err := s.sessions.ListByCourseSince(ctx, courseID, since)
	if err != nil {
		return nil, wrapStoreError("get_learning_analytics", "failed to load study sessions", err)
	}

	report := &domain.LearningAnalytics{
		CourseID:          courseID,
		PeriodDays:        days,
		GeneratedAt:       now,
		TotalCards:        summary.TotalCards,
		DueCards:          summary.DueCards,
		ReviewedCards:     summary.ReviewedCards,
		AverageDifficulty: summary.AverageDifficulty,
		AverageQuality:    summary.AverageQuality,
		TotalReviews:      len(reviews),
		StudySessions:     len(sessions),
		LearningCurve:     learningCurve(reviews),
	}

	var latencyTotal int64
	for _, r := range reviews {
		if r.Correct() {
			report.CorrectReviews++
		}
		latencyTotal += r.ResponseTimeMs
	}
	if len(reviews) > 0 {
		report.Accuracy = float64(report.CorrectReviews) / float64(len(reviews))
		report.AverageResponseTimeMs = float64(latencyTotal) / float64(len(reviews))
	}

	for _, session := range sessions {
		report.StudyTimeMinutes += session.Duration().Minutes()
	}

	log.Debug("analytics computed",
		slog.String("course_id", courseID),
		slog.Int("days", days),
		slog.Int("total_reviews", report.TotalReviews),
		slog.Float64("accuracy", report.Accuracy))
	return report, nil
}

// learningCurve groups reviews by UTC calendar day, oldest day first.
func learningCurve(reviews []*domain.ReviewSession) []domain.LearningCurvePoint {
	type bucket struct {
		total int
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range reviews {
		day := r.ReviewedAt.UTC().Format(curveDateLayout)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.total += r.QualityRating
		b.count++
	}

	curve := make([]domain.LearningCurvePoint, 0, len(buckets))
	for day, b := range buckets {
		curve = append(curve, domain.LearningCurvePoint{
			Date:           day,
			AverageQuality: float64(b.total) / float64(b.count),
			Reviews:        b.count,
		})
	}
	sort.Slice(curve, func(i, j int) bool { return curve[i].Date < curve[j].Date })
	return curve
}

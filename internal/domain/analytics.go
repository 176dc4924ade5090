package domain

import "time"

// LearningAnalytics is a read-only report derived from stored cards and
// review history for one course over a trailing window of days.
type LearningAnalytics struct {
	CourseID    string    `json:"course_id"`
	PeriodDays  int       `json:"period_days"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalCards        int     `json:"total_cards"`
	DueCards          int     `json:"due_cards"`
	ReviewedCards     int     `json:"reviewed_cards"`
	AverageDifficulty float64 `json:"average_difficulty"`
	AverageQuality    float64 `json:"average_quality"`

	TotalReviews          int     `json:"total_reviews"`
	CorrectReviews        int     `json:"correct_reviews"`
	Accuracy              float64 `json:"accuracy"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`

	StudySessions    int     `json:"study_sessions"`
	StudyTimeMinutes float64 `json:"study_time_minutes"`

	LearningCurve []LearningCurvePoint `json:"learning_curve"`
}

// LearningCurvePoint aggregates the reviews of one calendar day (UTC).
type LearningCurvePoint struct {
	Date           string  `json:"date"`
	AverageQuality float64 `json:"average_quality"`
	Reviews        int     `json:"reviews"`
}

// RecommendationKind identifies a study recommendation rule.
type RecommendationKind string

// Recommendation kinds.
const (
	RecommendationFocusFundamentals RecommendationKind = "focus_fundamentals"
	RecommendationRecallFaster      RecommendationKind = "recall_faster"
	RecommendationShorterSessions   RecommendationKind = "shorter_sessions"
	RecommendationAddCards          RecommendationKind = "add_cards"
)

// Recommendation is one rule-based piece of study advice.
type Recommendation struct {
	Kind    RecommendationKind `json:"kind"`
	Message string             `json:"message"`
}

// StudyFocus names what the learner should work on next.
type StudyFocus string

// Study focus values, in priority order.
const (
	FocusDueCards   StudyFocus = "due_cards"
	FocusWeakReview StudyFocus = "review_weak_cards"
	FocusNewCards   StudyFocus = "new_cards"
)

// StudyRecommendations is the advice derived from recent analytics.
type StudyRecommendations struct {
	CourseID             string            `json:"course_id"`
	Recommendations      []Recommendation  `json:"recommendations"`
	SuggestedSessionSize int               `json:"suggested_session_size"`
	NextFocus            StudyFocus        `json:"next_focus"`
	BasedOn              LearningAnalytics `json:"based_on"`
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quality rating bounds. 0 is a complete blackout, 5 is perfect recall.
const (
	MinQualityRating     = 0
	MaxQualityRating     = 5
	PassingQualityRating = 3
)

// ReviewSession is the immutable record of one review of one card. It keeps
// a snapshot of the card's scheduling state before the review was applied.
type ReviewSession struct {
	ID                  string    `json:"id"                    db:"id"`
	CardID              string    `json:"card_id"               db:"card_id"`
	SessionID           string    `json:"session_id"            db:"session_id"`
	QualityRating       int       `json:"quality_rating"        db:"quality_rating"`
	ResponseTimeMs      int64     `json:"response_time_ms"      db:"response_time_ms"`
	ReviewedAt          time.Time `json:"reviewed_at"           db:"reviewed_at"`
	PreviousInterval    int       `json:"previous_interval"     db:"previous_interval"`
	PreviousEaseFactor  float64   `json:"previous_ease_factor"  db:"previous_ease_factor"`
	PreviousRepetitions int       `json:"previous_repetitions"  db:"previous_repetitions"`
}

// ValidateReviewOutcome rejects a quality rating outside 0-5 or a negative
// response time before it can reach the scheduler.
func ValidateReviewOutcome(qualityRating int, responseTimeMs int64) error {
	if qualityRating < MinQualityRating || qualityRating > MaxQualityRating {
		return NewValidationError("quality_rating", "must be between 0 and 5", ErrInvalidQualityRating)
	}
	if responseTimeMs < 0 {
		return NewValidationError("response_time_ms", "cannot be negative", ErrInvalidResponseTime)
	}
	return nil
}

// NewReviewSession records a review of card taken at reviewedAt. The card must
// still hold its pre-review scheduling state. An empty sessionID starts a new
// sitting with a generated id.
func NewReviewSession(
	card *LearningCard,
	sessionID string,
	qualityRating int,
	responseTimeMs int64,
	reviewedAt time.Time,
) (*ReviewSession, error) {
	if card == nil || card.ID == "" {
		return nil, NewValidationError("card_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateReviewOutcome(qualityRating, responseTimeMs); err != nil {
		return nil, err
	}

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return &ReviewSession{
		ID:                  uuid.NewString(),
		CardID:              card.ID,
		SessionID:           sessionID,
		QualityRating:       qualityRating,
		ResponseTimeMs:      responseTimeMs,
		ReviewedAt:          reviewedAt.UTC(),
		PreviousInterval:    card.IntervalDays,
		PreviousEaseFactor:  card.EaseFactor,
		PreviousRepetitions: card.Repetitions,
	}, nil
}

// Correct reports whether the raw rating counts as a successful recall.
func (r *ReviewSession) Correct() bool {
	return r.QualityRating >= PassingQualityRating
}

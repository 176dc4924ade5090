package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StudySession is a reporting-only aggregate of one study sitting.
type StudySession struct {
	ID                    string     `json:"id"                       db:"id"`
	CourseID              string     `json:"course_id"                db:"course_id"`
	StartedAt             time.Time  `json:"started_at"               db:"started_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"       db:"ended_at"`
	CardsStudied          int        `json:"cards_studied"            db:"cards_studied"`
	CardsCorrect          int        `json:"cards_correct"            db:"cards_correct"`
	AverageResponseTimeMs float64    `json:"average_response_time_ms" db:"average_response_time_ms"`
	SessionType           string     `json:"session_type"             db:"session_type"`
}

// DefaultStudySessionType is used when the caller does not tag a session.
const DefaultStudySessionType = "review"

// NewStudySession builds a validated StudySession.
func NewStudySession(
	courseID string,
	startedAt time.Time,
	endedAt *time.Time,
	cardsStudied, cardsCorrect int,
	averageResponseTimeMs float64,
	sessionType string,
) (*StudySession, error) {
	s := &StudySession{
		ID:                    uuid.NewString(),
		CourseID:              strings.TrimSpace(courseID),
		StartedAt:             startedAt.UTC(),
		CardsStudied:          cardsStudied,
		CardsCorrect:          cardsCorrect,
		AverageResponseTimeMs: averageResponseTimeMs,
		SessionType:           strings.TrimSpace(sessionType),
	}
	if endedAt != nil {
		e := endedAt.UTC()
		s.EndedAt = &e
	}
	if s.SessionType == "" {
		s.SessionType = DefaultStudySessionType
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the counters and timestamps of the session.
func (s *StudySession) Validate() error {
	if s.CourseID == "" {
		return NewValidationError("course_id", "cannot be empty", ErrInvalidID)
	}
	if s.StartedAt.IsZero() {
		return NewValidationError("started_at", "is required", nil)
	}
	if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
		return NewValidationError("ended_at", "cannot be before started_at", nil)
	}
	if s.CardsStudied < 0 || s.CardsCorrect < 0 {
		return NewValidationError("cards_studied", "counts cannot be negative", nil)
	}
	if s.CardsCorrect > s.CardsStudied {
		return NewValidationError("cards_correct", "cannot exceed cards_studied", nil)
	}
	if s.AverageResponseTimeMs < 0 {
		return NewValidationError("average_response_time_ms", "cannot be negative", ErrInvalidResponseTime)
	}
	return nil
}

// Duration is the length of a finished session, or zero while it is open.
func (s *StudySession) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

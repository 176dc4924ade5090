package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// StudySessionStore persists study session aggregates.
type StudySessionStore interface {
	Create(ctx context.Context, session *domain.StudySession) error

	// ListByCourseSince returns the sessions of a course started at or after
	// since, oldest first.
	ListByCourseSince(ctx context.Context, courseID string, since time.Time) ([]*domain.StudySession, error)

	WithTx(tx *sqlx.Tx) StudySessionStore
}

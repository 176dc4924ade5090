package sqlstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

const studySessionColumns = `id, course_id, started_at, ended_at, cards_studied, cards_correct,
	average_response_time_ms, session_type`

// StudySessionStore implements store.StudySessionStore.
type StudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewStudySessionStore creates a StudySessionStore over a database connection
// or transaction.
func NewStudySessionStore(db store.DBTX, logger *slog.Logger) *StudySessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudySessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_session_store")),
	}
}

var _ store.StudySessionStore = (*StudySessionStore)(nil)

func (s *StudySessionStore) WithTx(tx *sqlx.Tx) store.StudySessionStore {
	return &StudySessionStore{db: tx, logger: s.logger}
}

func (s *StudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	row := *session
	row.StartedAt = utc(session.StartedAt)
	if session.EndedAt != nil {
		ended := utc(*session.EndedAt)
		row.EndedAt = &ended
	}

	query := `INSERT INTO study_sessions (` + studySessionColumns + `)
		VALUES (:id, :course_id, :started_at, :ended_at, :cards_studied, :cards_correct,
			:average_response_time_ms, :session_type)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("course_id", session.CourseID))
		return store.NewStoreError("study_session", "create", "insert failed", MapError(err))
	}

	log.Debug("study session recorded",
		slog.String("study_session_id", session.ID),
		slog.String("course_id", session.CourseID))
	return nil
}

func (s *StudySessionStore) ListByCourseSince(
	ctx context.Context,
	courseID string,
	since time.Time,
) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.db.Rebind(`SELECT ` + studySessionColumns + ` FROM study_sessions
		WHERE course_id = ? AND started_at >= ?
		ORDER BY started_at ASC, id ASC`)

	sessions := []*domain.StudySession{}
	if err := s.db.SelectContext(ctx, &sessions, query, courseID, utc(since)); err != nil {
		log.Error("failed to list study sessions",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID))
		return nil, store.NewStoreError("study_session", "list_by_course", "select failed", MapError(err))
	}
	for _, ss := range sessions {
		ss.StartedAt = ss.StartedAt.UTC()
		if ss.EndedAt != nil {
			e := ss.EndedAt.UTC()
			ss.EndedAt = &e
		}
	}
	return sessions, nil
}

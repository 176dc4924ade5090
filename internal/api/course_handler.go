package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
)

// CourseHandler serves course-level reports and study session records.
type CourseHandler struct {
	service learning.Service
	logger  *slog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(service learning.Service, logger *slog.Logger) *CourseHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for CourseHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CourseHandler")
	}

	return &CourseHandler{
		service: service,
		logger:  logger.With(slog.String("component", "course_handler")),
	}
}

// GetAnalytics handles GET /courses/{courseID}/analytics?days=N requests.
func (h *CourseHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	courseID, err := getPathString(r, "courseID")
	if err != nil {
		HandleAPIError(w, r, err, "Course ID is required")
		return
	}

	days, err := getQueryInt(r, "days", learning.DefaultAnalyticsDays)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	analytics, err := h.service.GetLearningAnalytics(r.Context(), courseID, days)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, analytics)
}

// GetRecommendations handles GET /courses/{courseID}/recommendations requests.
func (h *CourseHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	courseID, err := getPathString(r, "courseID")
	if err != nil {
		HandleAPIError(w, r, err, "Course ID is required")
		return
	}

	recs, err := h.service.GetStudyRecommendations(r.Context(), courseID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("recommendations computed",
		slog.String("course_id", courseID),
		slog.Int("count", len(recs.Recommendations)),
		slog.String("next_focus", string(recs.NextFocus)))
	shared.RespondWithJSON(w, r, http.StatusOK, recs)
}

// RecordStudySession handles POST /courses/{courseID}/study-sessions requests.
func (h *CourseHandler) RecordStudySession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	courseID, err := getPathString(r, "courseID")
	if err != nil {
		HandleAPIError(w, r, err, "Course ID is required")
		return
	}

	var req RecordStudySessionRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	session, err := h.service.RecordStudySession(r.Context(), req.params(courseID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

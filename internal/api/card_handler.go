// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/redact"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	service learning.Service
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(service learning.Service, logger *slog.Logger) *CardHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		service: service,
		logger:  logger.With(slog.String("component", "card_handler")),
	}
}

// decodeAndValidate decodes the JSON body into req and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// CreateCard handles POST /courses/{courseID}/cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	courseID, err := getPathString(r, "courseID")
	if err != nil {
		HandleAPIError(w, r, err, "Course ID is required")
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	card, err := h.service.CreateCard(r.Context(), req.params(courseID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card created",
		slog.String("course_id", courseID),
		slog.String("card_id", card.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GetDueCards handles GET /courses/{courseID}/cards/due requests.
// It returns an empty list, not 204, when nothing is due.
func (h *CardHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	courseID, err := getPathString(r, "courseID")
	if err != nil {
		HandleAPIError(w, r, err, "Course ID is required")
		return
	}

	params, err := parseDueCardsParams(r, courseID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.service.GetDueCards(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("due cards retrieved",
		slog.String("course_id", courseID),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusOK, newCardListResponse(cards))
}

// GenerateCards handles POST /courses/{courseID}/cards/generate requests.
func (h *CardHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	courseID, err := getPathString(r, "courseID")
	if err != nil {
		HandleAPIError(w, r, err, "Course ID is required")
		return
	}

	var req GenerateCardsRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	cards, err := h.service.GenerateCardsFromContent(r.Context(), req.params(courseID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("cards generated from content",
		slog.String("course_id", courseID),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, newCardListResponse(cards))
}

// GetCard handles GET /cards/{cardID} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	card, err := h.service.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// ListReviews handles GET /cards/{cardID}/reviews requests.
func (h *CardHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewListResponse{CardID: cardID, Reviews: reviews})
}

// SubmitReview handles POST /cards/{cardID}/reviews requests.
// It records the answer and returns the card's new schedule.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	result, err := h.service.ReviewCard(r.Context(), req.params(cardID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("review recorded",
		slog.String("card_id", cardID),
		slog.Int("quality", result.QualityRating),
		slog.Int("interval_days", result.IntervalDays))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

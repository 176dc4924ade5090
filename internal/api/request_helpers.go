package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
)

// getPathUUID extracts a UUID path parameter and returns it in canonical
// string form.
func getPathUUID(r *http.Request, paramName string) (string, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return "", domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id.String(), nil
}

// getPathString extracts a free-form identifier such as a course ID.
func getPathString(r *http.Request, paramName string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, paramName))
	if v == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}
	return v, nil
}

// getQueryInt parses an optional integer query parameter, returning def when
// it is absent.
func getQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	return v, nil
}

// getCardTypes reads the card type filter. Both repeated parameters
// (?type=a&type=b) and comma separated values are accepted.
func getCardTypes(r *http.Request) ([]domain.CardType, error) {
	var types []domain.CardType
	for _, raw := range r.URL.Query()["type"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ct := domain.CardType(part)
			if !ct.Valid() {
				return nil, domain.NewValidationError("type", "is not a known card type", domain.ErrInvalidCardType)
			}
			types = append(types, ct)
		}
	}
	return types, nil
}

// parseDueCardsParams builds the due-card query from the request.
func parseDueCardsParams(r *http.Request, courseID string) (learning.DueCardsParams, error) {
	limit, err := getQueryInt(r, "limit", learning.DefaultDueCardsLimit)
	if err != nil {
		return learning.DueCardsParams{}, err
	}
	types, err := getCardTypes(r)
	if err != nil {
		return learning.DueCardsParams{}, err
	}
	return learning.DueCardsParams{CourseID: courseID, Limit: limit, CardTypes: types}, nil
}

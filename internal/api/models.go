package api

import (
	"time"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
)

// CreateCardRequest defines the payload for creating a card in a course.
type CreateCardRequest struct {
	Question       string   `json:"question"                  validate:"required,max=4000"`
	Answer         string   `json:"answer"                    validate:"required,max=8000"`
	CardType       string   `json:"card_type,omitempty"       validate:"omitempty,oneof=basic cloze concept application auto_generated"`
	ConceptID      *string  `json:"concept_id,omitempty"      validate:"omitempty,max=128"`
	Tags           []string `json:"tags,omitempty"            validate:"omitempty,max=32,dive,max=64"`
	SourceMaterial *string  `json:"source_material,omitempty" validate:"omitempty,max=512"`
}

func (req CreateCardRequest) params(courseID string) learning.CreateCardParams {
	return learning.CreateCardParams{
		CourseID:       courseID,
		Question:       req.Question,
		Answer:         req.Answer,
		CardType:       domain.CardType(req.CardType),
		ConceptID:      req.ConceptID,
		Tags:           req.Tags,
		SourceMaterial: req.SourceMaterial,
	}
}

// SubmitReviewRequest is one answer to a card. Quality and latency are
// pointers so that a missing field can be told apart from zero.
type SubmitReviewRequest struct {
	QualityRating  *int   `json:"quality_rating"       validate:"required,min=0,max=5"`
	ResponseTimeMs *int64 `json:"response_time_ms"     validate:"required,min=0"`
	SessionID      string `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

func (req SubmitReviewRequest) params(cardID string) learning.ReviewParams {
	return learning.ReviewParams{
		CardID:         cardID,
		QualityRating:  *req.QualityRating,
		ResponseTimeMs: *req.ResponseTimeMs,
		SessionID:      req.SessionID,
	}
}

// RecordStudySessionRequest defines the payload for storing a study session.
type RecordStudySessionRequest struct {
	StartedAt             time.Time  `json:"started_at"               validate:"required"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	CardsStudied          int        `json:"cards_studied"            validate:"min=0"`
	CardsCorrect          int        `json:"cards_correct"            validate:"min=0,ltefield=CardsStudied"`
	AverageResponseTimeMs float64    `json:"average_response_time_ms" validate:"min=0"`
	SessionType           string     `json:"session_type,omitempty"   validate:"omitempty,max=64"`
}

func (req RecordStudySessionRequest) params(courseID string) learning.StudySessionParams {
	return learning.StudySessionParams{
		CourseID:              courseID,
		StartedAt:             req.StartedAt,
		EndedAt:               req.EndedAt,
		CardsStudied:          req.CardsStudied,
		CardsCorrect:          req.CardsCorrect,
		AverageResponseTimeMs: req.AverageResponseTimeMs,
		SessionType:           req.SessionType,
	}
}

// GenerateCardsRequest carries study material to turn into cards.
type GenerateCardsRequest struct {
	Content        string  `json:"content"                   validate:"required,max=200000"`
	SourceMaterial *string `json:"source_material,omitempty" validate:"omitempty,max=512"`
}

func (req GenerateCardsRequest) params(courseID string) learning.GenerateParams {
	return learning.GenerateParams{
		CourseID:       courseID,
		Content:        req.Content,
		SourceMaterial: req.SourceMaterial,
	}
}

// CardListResponse wraps a list of cards.
type CardListResponse struct {
	Cards []*domain.LearningCard `json:"cards"`
	Count int                    `json:"count"`
}

func newCardListResponse(cards []*domain.LearningCard) CardListResponse {
	if cards == nil {
		cards = []*domain.LearningCard{}
	}
	return CardListResponse{Cards: cards, Count: len(cards)}
}

// ReviewListResponse wraps the review history of a card.
type ReviewListResponse struct {
	CardID  string                  `json:"card_id"`
	Reviews []*domain.ReviewSession `json:"reviews"`
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults and bounds shared by the card model and the SRS engine.
const (
	// DefaultEaseFactor is the ease factor assigned to new cards.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the lowest ease factor a card can reach.
	MinEaseFactor = 1.3

	// MaxEaseFactor is the highest ease factor a card can reach.
	MaxEaseFactor = 2.5

	// MinIntervalDays is the shortest review interval.
	MinIntervalDays = 1

	// MaxIntervalDays is the longest review interval (roughly a century).
	MaxIntervalDays = 36500

	// BaselineDifficulty is the difficulty a plain card starts from.
	BaselineDifficulty = 0.3
)

// CardType classifies how a learning card is presented.
type CardType string

// Supported card types.
const (
	CardTypeBasic         CardType = "basic"
	CardTypeCloze         CardType = "cloze"
	CardTypeConcept       CardType = "concept"
	CardTypeApplication   CardType = "application"
	CardTypeAutoGenerated CardType = "auto_generated"
)

// Valid reports whether t is one of the supported card types.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeBasic, CardTypeCloze, CardTypeConcept, CardTypeApplication, CardTypeAutoGenerated:
		return true
	default:
		return false
	}
}

// LearningCard is a single unit of knowledge belonging to one course.
//
// The scheduling fields (Difficulty, EaseFactor, IntervalDays, Repetitions,
// NextReview) and the history fields (ReviewCount, TotalQuality) are only
// changed by a recorded review.
type LearningCard struct {
	ID             string    `json:"id"              db:"id"`
	CourseID       string    `json:"course_id"       db:"course_id"`
	ConceptID      *string   `json:"concept_id"      db:"concept_id"`
	Question       string    `json:"question"        db:"question"`
	Answer         string    `json:"answer"          db:"answer"`
	CardType       CardType  `json:"card_type"       db:"card_type"`
	Difficulty     float64   `json:"difficulty"      db:"difficulty"`
	EaseFactor     float64   `json:"ease_factor"     db:"ease_factor"`
	IntervalDays   int       `json:"interval_days"   db:"interval_days"`
	Repetitions    int       `json:"repetitions"     db:"repetitions"`
	NextReview     time.Time `json:"next_review"     db:"next_review"`
	ReviewCount    int       `json:"review_count"    db:"review_count"`
	TotalQuality   float64   `json:"total_quality"   db:"total_quality"`
	ContextTags    Tags      `json:"context_tags"    db:"context_tags"`
	SourceMaterial *string   `json:"source_material" db:"source_material"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"      db:"updated_at"`
}

// NewCardParams holds the caller-supplied content of a new card.
type NewCardParams struct {
	CourseID       string
	Question       string
	Answer         string
	CardType       CardType
	ConceptID      *string
	Tags           []string
	SourceMaterial *string
}

// NewLearningCard builds a validated card with initial scheduling state:
// an estimated difficulty, the default ease factor, a one-day interval,
// no repetitions and a review due immediately at now.
func NewLearningCard(p NewCardParams, now time.Time) (*LearningCard, error) {
	now = now.UTC()
	card := &LearningCard{
		ID:             uuid.NewString(),
		CourseID:       strings.TrimSpace(p.CourseID),
		ConceptID:      trimmedOrNil(p.ConceptID),
		Question:       strings.TrimSpace(p.Question),
		Answer:         strings.TrimSpace(p.Answer),
		CardType:       p.CardType,
		EaseFactor:     DefaultEaseFactor,
		IntervalDays:   MinIntervalDays,
		Repetitions:    0,
		NextReview:     now,
		ContextTags:    NewTags(p.Tags...),
		SourceMaterial: trimmedOrNil(p.SourceMaterial),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if card.CardType == "" {
		card.CardType = CardTypeBasic
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	card.Difficulty = EstimateInitialDifficulty(card.Question, card.Answer)
	return card, nil
}

// Validate checks identity, content and the scheduling bounds of the card.
func (c *LearningCard) Validate() error {
	if c.ID == "" {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.CourseID == "" {
		return NewValidationError("course_id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(c.Question) == "" {
		return NewValidationError("question", "cannot be empty", ErrEmptyContent)
	}
	if strings.TrimSpace(c.Answer) == "" {
		return NewValidationError("answer", "cannot be empty", ErrEmptyContent)
	}
	if !c.CardType.Valid() {
		return NewValidationError("card_type", "must be one of basic, cloze, concept, application, auto_generated", ErrInvalidCardType)
	}
	if c.Difficulty < 0 || c.Difficulty > 1 {
		return NewValidationError("difficulty", "must be between 0 and 1", nil)
	}
	if c.EaseFactor < MinEaseFactor || c.EaseFactor > MaxEaseFactor {
		return NewValidationError("ease_factor", "must be between 1.3 and 2.5", nil)
	}
	if c.IntervalDays < MinIntervalDays || c.IntervalDays > MaxIntervalDays {
		return NewValidationError("interval_days", "must be between 1 and 36500", nil)
	}
	if c.Repetitions < 0 {
		return NewValidationError("repetitions", "cannot be negative", nil)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

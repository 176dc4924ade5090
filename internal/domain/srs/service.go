package srs

import (
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// State is the scheduling state of a card before a review.
type State struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	Difficulty   float64
}

// Outcome is what the learner reported for one review.
type Outcome struct {
	QualityRating  int
	ResponseTimeMs int64
}

// Result is the scheduling state of a card after a review.
type Result struct {
	EaseFactor      float64
	IntervalDays    int
	Repetitions     int
	AdjustedQuality int
	Passed          bool
}

// StateOf extracts the scheduling state from a card.
func StateOf(card *domain.LearningCard) State {
	return State{
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
		Repetitions:  card.Repetitions,
		Difficulty:   card.Difficulty,
	}
}

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Schedule computes the next scheduling state for a review outcome.
	// The outcome must already be validated.
	Schedule(state State, outcome Outcome) Result

	// AdjustDifficulty returns the card difficulty after a review with the
	// given raw quality rating.
	AdjustDifficulty(current float64, rawQuality int) float64

	// Params returns a copy of the parameters in use.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params cannot be nil", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	cp := *params
	return &defaultService{params: &cp}, nil
}

func (s *defaultService) Schedule(state State, outcome Outcome) Result {
	return calculateNextState(state, outcome, s.params)
}

func (s *defaultService) AdjustDifficulty(current float64, rawQuality int) float64 {
	return calculateNextDifficulty(current, rawQuality, s.params)
}

func (s *defaultService) Params() Params {
	return *s.params
}

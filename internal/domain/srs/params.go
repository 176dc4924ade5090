package srs

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// QualityRounding selects how a cognitively adjusted quality rating is turned
// back into an integer before the SM-2 update.
type QualityRounding string

const (
	// RoundHalfUp rounds x.5 and above up. Adjustments never exceed 0.3 in
	// magnitude, so with this rule the adjusted quality equals the raw rating.
	RoundHalfUp QualityRounding = "half_up"

	// Truncate drops the fractional part, which lets a slow or hard-card
	// penalty turn a barely passing 3 into a failing 2.
	Truncate QualityRounding = "truncate"
)

// ErrInvalidParams is returned by Params.Validate for inconsistent settings.
var ErrInvalidParams = errors.New("invalid srs parameters")

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEaseFactor   float64
	MaxEaseFactor   float64
	MinIntervalDays int
	MaxIntervalDays int

	// SM-2 behaviour
	PassingQuality     int
	FirstInterval      int
	SecondInterval     int
	FailureEasePenalty float64

	// Cognitive adjustment
	SlowResponseMs         int64
	SlowResponsePenalty    float64
	FastResponseMs         int64
	FastResponseBonus      float64
	HardDifficulty         float64
	HardCardPenalty        float64
	EasyDifficulty         float64
	EasyCardBonus          float64
	EasyCardMinimumQuality int
	Rounding               QualityRounding

	// Difficulty drift applied to the card after each review
	GoodQuality              int
	DifficultyDecreaseOnGood float64
	DifficultyIncreaseOnPoor float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:   domain.MinEaseFactor,
		MaxEaseFactor:   domain.MaxEaseFactor,
		MinIntervalDays: domain.MinIntervalDays,
		MaxIntervalDays: domain.MaxIntervalDays,

		PassingQuality:     domain.PassingQualityRating,
		FirstInterval:      1,
		SecondInterval:     6,
		FailureEasePenalty: 0.2,

		SlowResponseMs:         10000,
		SlowResponsePenalty:    0.2,
		FastResponseMs:         3000,
		FastResponseBonus:      0.1,
		HardDifficulty:         0.7,
		HardCardPenalty:        0.1,
		EasyDifficulty:         0.3,
		EasyCardBonus:          0.1,
		EasyCardMinimumQuality: 4,
		Rounding:               RoundHalfUp,

		GoodQuality:              4,
		DifficultyDecreaseOnGood: 0.05,
		DifficultyIncreaseOnPoor: 0.1,
	}
}

// WithRounding returns a copy of p using the given rounding rule.
func (p *Params) WithRounding(r QualityRounding) *Params {
	cp := *p
	cp.Rounding = r
	return &cp
}

// Validate checks that the limits are ordered and the rounding rule is known.
func (p *Params) Validate() error {
	if p.MinEaseFactor <= 0 || p.MinEaseFactor > p.MaxEaseFactor {
		return fmt.Errorf("%w: ease factor range [%v, %v]", ErrInvalidParams, p.MinEaseFactor, p.MaxEaseFactor)
	}
	if p.MinIntervalDays < 1 || p.MinIntervalDays > p.MaxIntervalDays {
		return fmt.Errorf("%w: interval range [%d, %d]", ErrInvalidParams, p.MinIntervalDays, p.MaxIntervalDays)
	}
	if p.PassingQuality < domain.MinQualityRating || p.PassingQuality > domain.MaxQualityRating {
		return fmt.Errorf("%w: passing quality %d", ErrInvalidParams, p.PassingQuality)
	}
	switch p.Rounding {
	case RoundHalfUp, Truncate:
	default:
		return fmt.Errorf("%w: unknown rounding %q", ErrInvalidParams, p.Rounding)
	}
	return nil
}

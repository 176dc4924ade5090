package srs

import (
	"math"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// cognitiveAdjustment computes the signed correction applied to a raw quality
// rating before the SM-2 update.
//
// Passing answers are penalized when slow and rewarded when fast. A hard card
// that was barely passed loses a little more, and an easy card that was
// answered well gains a little more. The adjustments are additive.
func cognitiveAdjustment(quality int, responseTimeMs int64, difficulty float64, params *Params) float64 {
	adjustment := 0.0

	if quality >= params.PassingQuality {
		if responseTimeMs > params.SlowResponseMs {
			adjustment -= params.SlowResponsePenalty
		}
		if responseTimeMs < params.FastResponseMs {
			adjustment += params.FastResponseBonus
		}
	}

	if difficulty > params.HardDifficulty && quality == params.PassingQuality {
		adjustment -= params.HardCardPenalty
	}

	if difficulty < params.EasyDifficulty && quality >= params.EasyCardMinimumQuality {
		adjustment += params.EasyCardBonus
	}

	return adjustment
}

// adjustQuality applies the cognitive adjustment to the raw rating, rounds the
// result according to params.Rounding, and clamps it to [0,5].
func adjustQuality(quality int, responseTimeMs int64, difficulty float64, params *Params) int {
	adjusted := float64(quality) + cognitiveAdjustment(quality, responseTimeMs, difficulty, params)

	var rounded float64
	switch params.Rounding {
	case Truncate:
		rounded = math.Trunc(adjusted)
	default:
		rounded = math.Floor(adjusted + 0.5)
	}

	q := int(rounded)
	if q < domain.MinQualityRating {
		q = domain.MinQualityRating
	}
	if q > domain.MaxQualityRating {
		q = domain.MaxQualityRating
	}
	return q
}

// calculateSuccessEaseFactor applies the SM-2 ease update for a passing
// adjusted quality q and clamps the result to the configured limits.
// A quality of exactly 3 still lowers the ease factor (by 0.14).
func calculateSuccessEaseFactor(currentEF float64, q int, params *Params) float64 {
	miss := float64(domain.MaxQualityRating - q)
	newEF := currentEF + 0.1 - miss*(0.08+miss*0.02)
	return clampFloat(newEF, params.MinEaseFactor, params.MaxEaseFactor)
}

// calculateFailureEaseFactor lowers the ease factor after a failed review,
// never going below the configured minimum.
func calculateFailureEaseFactor(currentEF float64, params *Params) float64 {
	return clampFloat(currentEF-params.FailureEasePenalty, params.MinEaseFactor, params.MaxEaseFactor)
}

// calculateSuccessInterval returns the interval after a passing review. The
// first two successes use fixed intervals; later ones grow the previous
// interval by the ease factor the card had before this review.
func calculateSuccessInterval(currentInterval, repetitions int, currentEF float64, params *Params) int {
	switch repetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * currentEF))
	}
}

// calculateNextState runs the enhanced SM-2 update for one review.
//
// Order matters and is fixed: adjust quality, branch on pass or fail, update
// interval and ease factor, clamp the interval. A failure leaves the card with
// zero repetitions so the next success restarts at the first fixed interval.
func calculateNextState(state State, outcome Outcome, params *Params) Result {
	q := adjustQuality(outcome.QualityRating, outcome.ResponseTimeMs, state.Difficulty, params)

	result := Result{AdjustedQuality: q}

	if q < params.PassingQuality {
		result.Passed = false
		result.Repetitions = 0
		result.IntervalDays = params.MinIntervalDays
		result.EaseFactor = calculateFailureEaseFactor(state.EaseFactor, params)
	} else {
		result.Passed = true
		result.IntervalDays = calculateSuccessInterval(state.IntervalDays, state.Repetitions, state.EaseFactor, params)
		result.EaseFactor = calculateSuccessEaseFactor(state.EaseFactor, q, params)
		result.Repetitions = state.Repetitions + 1
	}

	result.IntervalDays = clampInt(result.IntervalDays, params.MinIntervalDays, params.MaxIntervalDays)

	return result
}

// calculateNextDifficulty drifts a card's difficulty after a review using the
// raw quality rating: good answers lower it, poor answers raise it, and a
// plain pass leaves it alone.
func calculateNextDifficulty(current float64, rawQuality int, params *Params) float64 {
	switch {
	case rawQuality >= params.GoodQuality:
		current -= params.DifficultyDecreaseOnGood
	case rawQuality < params.PassingQuality:
		current += params.DifficultyIncreaseOnPoor
	}
	return clampFloat(current, 0, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

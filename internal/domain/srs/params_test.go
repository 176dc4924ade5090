package srs

import (
	"testing"
)

func TestNewDefaultParams(t *testing.T) {
	params := NewDefaultParams()

	if params.MinEaseFactor != 1.3 {
		t.Errorf("MinEaseFactor should be 1.3, got %f", params.MinEaseFactor)
	}
	if params.MaxEaseFactor != 2.5 {
		t.Errorf("MaxEaseFactor should be 2.5, got %f", params.MaxEaseFactor)
	}
	if params.MinIntervalDays != 1 || params.MaxIntervalDays != 36500 {
		t.Errorf("Unexpected interval range [%d, %d]", params.MinIntervalDays, params.MaxIntervalDays)
	}
	if params.FirstInterval != 1 || params.SecondInterval != 6 {
		t.Errorf("Unexpected fixed intervals %d and %d", params.FirstInterval, params.SecondInterval)
	}
	if params.PassingQuality != 3 {
		t.Errorf("PassingQuality should be 3, got %d", params.PassingQuality)
	}
	if params.Rounding != RoundHalfUp {
		t.Errorf("Rounding should default to half up, got %q", params.Rounding)
	}
	if err := params.Validate(); err != nil {
		t.Errorf("Default params should be valid, got %v", err)
	}
}

func TestWithRoundingCopies(t *testing.T) {
	params := NewDefaultParams()
	truncating := params.WithRounding(Truncate)

	if params.Rounding != RoundHalfUp {
		t.Error("WithRounding must not modify the receiver")
	}
	if truncating.Rounding != Truncate {
		t.Errorf("Expected truncate, got %q", truncating.Rounding)
	}
}

func TestParamsValidate(t *testing.T) {
	mutations := map[string]func(p *Params){
		"inverted ease range":   func(p *Params) { p.MinEaseFactor = 3 },
		"zero ease minimum":     func(p *Params) { p.MinEaseFactor = 0 },
		"zero interval minimum": func(p *Params) { p.MinIntervalDays = 0 },
		"inverted interval":     func(p *Params) { p.MaxIntervalDays = 0 },
		"passing above range":   func(p *Params) { p.PassingQuality = 6 },
		"unknown rounding":      func(p *Params) { p.Rounding = "banker" },
	}

	for name, mutate := range mutations {
		p := NewDefaultParams()
		mutate(p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

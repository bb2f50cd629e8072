package srs

import (
	"github.com/pmallory/recall-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEaseFactor       float64
	MaxEaseFactor       float64
	MaximumIntervalDays int

	// Sub-day steps, in minutes, walked before a card graduates to Review.
	LearningStepsMinutes   []int
	RelearningStepsMinutes []int

	// Review-state intervals granted on graduation from the learning steps.
	GraduatingIntervalDays int
	EasyIntervalDays       int

	// Ease factor delta applied per outcome while in Review state.
	EaseFactorAdjustment map[domain.ReviewOutcome]float64

	// Review-state growth multipliers. Hard uses a flat multiplier
	// independent of the ease factor; Easy multiplies the ease factor by an
	// extra bonus. This asymmetry is standard SM-2 behavior.
	HardIntervalMultiplier float64
	EasyBonus              float64

	// IntervalModifier is a user-tunable multiplier applied to Review-state
	// interval growth only. 1.0 leaves intervals unchanged.
	IntervalModifier float64
}

// Config allows overriding the default parameters when creating a new Params
// instance. Zero values keep the defaults.
type Config struct {
	MinEaseFactor       float64
	MaxEaseFactor       float64
	MaximumIntervalDays int

	LearningStepsMinutes   []int
	RelearningStepsMinutes []int

	GraduatingIntervalDays int
	EasyIntervalDays       int

	HardIntervalMultiplier float64
	EasyBonus              float64
	IntervalModifier       float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:       1.3,
		MaxEaseFactor:       2.5,
		MaximumIntervalDays: 365,

		LearningStepsMinutes:   []int{1, 10},
		RelearningStepsMinutes: []int{10},

		GraduatingIntervalDays: 1,
		EasyIntervalDays:       4,

		EaseFactorAdjustment: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeAgain: -0.20,
			domain.ReviewOutcomeHard:  -0.15,
			domain.ReviewOutcomeGood:  0.0,
			domain.ReviewOutcomeEasy:  0.15,
		},

		HardIntervalMultiplier: 1.2,
		EasyBonus:              1.3,
		IntervalModifier:       1.0,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(cfg Config) *Params {
	params := NewDefaultParams()

	if cfg.MinEaseFactor > 0 {
		params.MinEaseFactor = cfg.MinEaseFactor
	}
	if cfg.MaxEaseFactor > 0 {
		params.MaxEaseFactor = cfg.MaxEaseFactor
	}
	if cfg.MaximumIntervalDays > 0 {
		params.MaximumIntervalDays = cfg.MaximumIntervalDays
	}

	if len(cfg.LearningStepsMinutes) > 0 {
		params.LearningStepsMinutes = cfg.LearningStepsMinutes
	}
	if len(cfg.RelearningStepsMinutes) > 0 {
		params.RelearningStepsMinutes = cfg.RelearningStepsMinutes
	}

	if cfg.GraduatingIntervalDays > 0 {
		params.GraduatingIntervalDays = cfg.GraduatingIntervalDays
	}
	if cfg.EasyIntervalDays > 0 {
		params.EasyIntervalDays = cfg.EasyIntervalDays
	}

	if cfg.HardIntervalMultiplier > 0 {
		params.HardIntervalMultiplier = cfg.HardIntervalMultiplier
	}
	if cfg.EasyBonus > 0 {
		params.EasyBonus = cfg.EasyBonus
	}
	if cfg.IntervalModifier > 0 {
		params.IntervalModifier = cfg.IntervalModifier
	}

	return params
}

package srs

import (
	"time"

	"github.com/pmallory/recall-api/internal/domain"
)

// Result is the complete scheduling state produced by rating a card. It is a
// value, not a mutation: the caller applies it to the card (and persists it)
// atomically together with a review log entry.
type Result struct {
	State           domain.CardState
	LearningStep    int
	IntervalMinutes int
	IntervalDays    int
	EaseFactor      float64
	Repetitions     int
	DueAt           time.Time
}

// Schedule computes the next scheduling state for a card given a review
// outcome. It is a pure function: the card is never mutated, no two calls
// share state, and identical inputs always produce identical results.
//
// Dispatch is on the card's current state first, then on the outcome. New and
// Learning are treated identically - a New card is simply a Learning card at
// step 0 with zero repetitions.
func Schedule(
	card *domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) Result {
	var r Result

	switch card.State {
	case domain.CardStateReview:
		r = scheduleReview(card, outcome, params)
	case domain.CardStateRelearning:
		r = scheduleRelearning(card, outcome, params)
	default:
		// New, Learning, and anything unrecognized from drifted stored data.
		r = scheduleLearning(card, outcome, params)
	}

	return finalize(r, now, params)
}

// scheduleLearning handles cards in the New or Learning state, walking the
// learning-step table until the card graduates into Review.
func scheduleLearning(card *domain.Card, outcome domain.ReviewOutcome, params *Params) Result {
	steps := stepTable(params.LearningStepsMinutes)
	step := clampStep(card.LearningStep, len(steps))

	r := Result{
		State:        domain.CardStateLearning,
		EaseFactor:   card.EaseFactor,
		Repetitions:  card.Repetitions,
		LearningStep: step,
	}

	switch outcome {
	case domain.ReviewOutcomeAgain:
		r.LearningStep = 0
		r.IntervalMinutes = steps[0]

	case domain.ReviewOutcomeHard:
		r.IntervalMinutes = steps[step]

	case domain.ReviewOutcomeGood:
		if step >= len(steps)-1 {
			return graduate(card, params.GraduatingIntervalDays)
		}
		r.LearningStep = step + 1
		r.IntervalMinutes = steps[step+1]

	case domain.ReviewOutcomeEasy:
		// Easy short-circuits the remaining steps regardless of position.
		return graduate(card, params.EasyIntervalDays)
	}

	return r
}

// graduate moves a learning card into the Review state with the given
// interval. Graduation is the single place a learning card's repetition
// count becomes 1.
func graduate(card *domain.Card, intervalDays int) Result {
	return Result{
		State:        domain.CardStateReview,
		IntervalDays: intervalDays,
		EaseFactor:   card.EaseFactor,
		Repetitions:  1,
	}
}

// scheduleReview handles cards in the long-interval Review state.
func scheduleReview(card *domain.Card, outcome domain.ReviewOutcome, params *Params) Result {
	ease := card.EaseFactor + params.EaseFactorAdjustment[outcome]

	if outcome == domain.ReviewOutcomeAgain {
		// Lapse: back into short-interval relearning. The repetition count
		// does not move; it only resets when the caller resets the card.
		relearn := stepTable(params.RelearningStepsMinutes)
		return Result{
			State:           domain.CardStateRelearning,
			IntervalMinutes: relearn[0],
			EaseFactor:      ease,
			Repetitions:     card.Repetitions,
		}
	}

	var days int
	switch outcome {
	case domain.ReviewOutcomeHard:
		// Hard uses a flat multiplier independent of the ease factor.
		days = growInterval(card.IntervalDays, params.HardIntervalMultiplier, params)
	case domain.ReviewOutcomeGood:
		days = growInterval(card.IntervalDays, ease, params)
	case domain.ReviewOutcomeEasy:
		days = growInterval(card.IntervalDays, ease*params.EasyBonus, params)
	}

	return Result{
		State:        domain.CardStateReview,
		IntervalDays: days,
		EaseFactor:   ease,
		Repetitions:  card.Repetitions + 1,
	}
}

// scheduleRelearning handles lapsed cards working their way back to Review.
func scheduleRelearning(card *domain.Card, outcome domain.ReviewOutcome, params *Params) Result {
	relearn := stepTable(params.RelearningStepsMinutes)

	r := Result{
		State:       domain.CardStateRelearning,
		EaseFactor:  card.EaseFactor,
		Repetitions: card.Repetitions,
	}

	switch outcome {
	case domain.ReviewOutcomeAgain:
		r.IntervalMinutes = relearn[0]

	case domain.ReviewOutcomeHard:
		r.IntervalMinutes = relearn[0] * 2

	case domain.ReviewOutcomeGood, domain.ReviewOutcomeEasy:
		// Recovery: back to Review at half the card's current interval
		// value, at least one day. Repetitions do not increment here; only
		// Review-state successes count.
		days := card.IntervalMinutes / 2
		if days < 1 {
			days = 1
		}
		r.State = domain.CardStateReview
		r.IntervalDays = days
		r.IntervalMinutes = 0
	}

	return r
}

// finalize applies the invariants every result must satisfy: ease factor
// clamped to its bounds, Review intervals capped at the maximum, exactly one
// interval field active, and the due date computed in the unit the resulting
// state calls for (minutes for Learning/Relearning, days for Review).
func finalize(r Result, now time.Time, params *Params) Result {
	if r.EaseFactor < params.MinEaseFactor {
		r.EaseFactor = params.MinEaseFactor
	}
	if r.EaseFactor > params.MaxEaseFactor {
		r.EaseFactor = params.MaxEaseFactor
	}

	if r.State == domain.CardStateReview {
		if r.IntervalDays > params.MaximumIntervalDays {
			r.IntervalDays = params.MaximumIntervalDays
		}
		r.IntervalMinutes = 0
		r.LearningStep = 0
		r.DueAt = now.AddDate(0, 0, r.IntervalDays)
	} else {
		r.IntervalDays = 0
		r.DueAt = now.Add(time.Duration(r.IntervalMinutes) * time.Minute)
	}

	return r
}

// ApplyTo copies the result onto the card. The caller is responsible for
// persisting the card and appending the matching review log entry atomically.
func (r Result) ApplyTo(card *domain.Card, now time.Time) {
	card.State = r.State
	card.LearningStep = r.LearningStep
	card.IntervalMinutes = r.IntervalMinutes
	card.IntervalDays = r.IntervalDays
	card.EaseFactor = r.EaseFactor
	card.Repetitions = r.Repetitions
	card.DueAt = r.DueAt
	card.UpdatedAt = now
}

// growInterval scales a Review-state interval by the given multiplier and the
// user-tunable interval modifier, flooring the product and keeping it at
// least one day.
func growInterval(currentDays int, multiplier float64, params *Params) int {
	days := int(float64(currentDays) * multiplier * params.IntervalModifier)
	if days < 1 {
		days = 1
	}
	return days
}

// stepTable guards against an empty configured step table. Stored cards may
// predate a config change, so missing steps fall back to a single one-minute
// step instead of panicking.
func stepTable(steps []int) []int {
	if len(steps) == 0 {
		return []int{1}
	}
	return steps
}

// clampStep clamps a stored learning-step index into the valid range for the
// current step table. Historical data may carry indexes beyond a shrunken
// table.
func clampStep(step, tableLen int) int {
	if step < 0 {
		return 0
	}
	if step > tableLen-1 {
		return tableLen - 1
	}
	return step
}

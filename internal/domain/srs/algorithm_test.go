package srs

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
)

// testCard builds a card in the given scheduling state for scheduler tests.
func testCard(
	state domain.CardState,
	step, intervalMinutes, intervalDays int,
	ease float64,
	repetitions int,
) *domain.Card {
	return &domain.Card{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Topic:           "test-topic",
		Content:         json.RawMessage(`{"front":"q","back":"a"}`),
		State:           state,
		LearningStep:    step,
		IntervalMinutes: intervalMinutes,
		IntervalDays:    intervalDays,
		EaseFactor:      ease,
		Repetitions:     repetitions,
	}
}

func TestScheduleLearningSteps(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		card        *domain.Card
		outcome     domain.ReviewOutcome
		wantState   domain.CardState
		wantStep    int
		wantMinutes int
		wantDays    int
		wantReps    int
	}{
		{
			name:        "new card rated again stays at step zero",
			card:        testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0),
			outcome:     domain.ReviewOutcomeAgain,
			wantState:   domain.CardStateLearning,
			wantStep:    0,
			wantMinutes: 1,
		},
		{
			name:        "new card rated hard repeats the current step",
			card:        testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0),
			outcome:     domain.ReviewOutcomeHard,
			wantState:   domain.CardStateLearning,
			wantStep:    0,
			wantMinutes: 1,
		},
		{
			name:        "new card rated good advances to the ten minute step",
			card:        testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0),
			outcome:     domain.ReviewOutcomeGood,
			wantState:   domain.CardStateLearning,
			wantStep:    1,
			wantMinutes: 10,
		},
		{
			name:      "learning card at final step rated good graduates",
			card:      testCard(domain.CardStateLearning, 1, 10, 0, 2.5, 0),
			outcome:   domain.ReviewOutcomeGood,
			wantState: domain.CardStateReview,
			wantDays:  1,
			wantReps:  1,
		},
		{
			name:      "new card rated easy graduates immediately with easy interval",
			card:      testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0),
			outcome:   domain.ReviewOutcomeEasy,
			wantState: domain.CardStateReview,
			wantDays:  4,
			wantReps:  1,
		},
		{
			name:      "learning card at intermediate step rated easy skips remaining steps",
			card:      testCard(domain.CardStateLearning, 0, 1, 0, 2.5, 0),
			outcome:   domain.ReviewOutcomeEasy,
			wantState: domain.CardStateReview,
			wantDays:  4,
			wantReps:  1,
		},
		{
			name:        "learning card after a lapse rated again resets to step zero",
			card:        testCard(domain.CardStateLearning, 1, 10, 0, 2.5, 0),
			outcome:     domain.ReviewOutcomeAgain,
			wantState:   domain.CardStateLearning,
			wantStep:    0,
			wantMinutes: 1,
		},
		{
			name:        "out of range stored step is clamped not rejected",
			card:        testCard(domain.CardStateLearning, 7, 10, 0, 2.5, 0),
			outcome:     domain.ReviewOutcomeHard,
			wantState:   domain.CardStateLearning,
			wantStep:    1,
			wantMinutes: 10,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := Schedule(tc.card, tc.outcome, now, params)

			if r.State != tc.wantState {
				t.Errorf("state = %s, want %s", r.State, tc.wantState)
			}
			if r.LearningStep != tc.wantStep {
				t.Errorf("learning step = %d, want %d", r.LearningStep, tc.wantStep)
			}
			if r.IntervalMinutes != tc.wantMinutes {
				t.Errorf("interval minutes = %d, want %d", r.IntervalMinutes, tc.wantMinutes)
			}
			if r.IntervalDays != tc.wantDays {
				t.Errorf("interval days = %d, want %d", r.IntervalDays, tc.wantDays)
			}
			if r.Repetitions != tc.wantReps {
				t.Errorf("repetitions = %d, want %d", r.Repetitions, tc.wantReps)
			}
		})
	}
}

func TestScheduleReview(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		card        *domain.Card
		outcome     domain.ReviewOutcome
		wantState   domain.CardState
		wantMinutes int
		wantDays    int
		wantEase    float64
		wantReps    int
	}{
		{
			name:        "again lapses into relearning at ten minutes",
			card:        testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3),
			outcome:     domain.ReviewOutcomeAgain,
			wantState:   domain.CardStateRelearning,
			wantMinutes: 10,
			wantEase:    2.3,
			wantReps:    3, // lapse never increments repetitions
		},
		{
			name:      "hard uses the flat multiplier not the ease factor",
			card:      testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3),
			outcome:   domain.ReviewOutcomeHard,
			wantState: domain.CardStateReview,
			wantDays:  12, // floor(10 * 1.2)
			wantEase:  2.35,
			wantReps:  4,
		},
		{
			name:      "good multiplies by the new ease factor",
			card:      testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3),
			outcome:   domain.ReviewOutcomeGood,
			wantState: domain.CardStateReview,
			wantDays:  25, // floor(10 * 2.5)
			wantEase:  2.5,
			wantReps:  4,
		},
		{
			name:      "easy adds the bonus on top of the ease factor",
			card:      testCard(domain.CardStateReview, 0, 0, 10, 2.3, 3),
			outcome:   domain.ReviewOutcomeEasy,
			wantState: domain.CardStateReview,
			wantDays:  31, // floor(10 * 2.45 * 1.3)
			wantEase:  2.45,
			wantReps:  4,
		},
		{
			name:      "ease factor is floored at the minimum",
			card:      testCard(domain.CardStateReview, 0, 0, 10, 1.35, 3),
			outcome:   domain.ReviewOutcomeHard,
			wantState: domain.CardStateReview,
			wantDays:  12,
			wantEase:  1.3, // 1.35 - 0.15 clamped up to 1.3
			wantReps:  4,
		},
		{
			name:      "ease factor is capped at the maximum",
			card:      testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3),
			outcome:   domain.ReviewOutcomeEasy,
			wantState: domain.CardStateReview,
			wantDays:  34, // floor(10 * 2.65 * 1.3), growth uses the pre-clamp ease
			wantEase:  2.5,
			wantReps:  4,
		},
		{
			name:      "review interval never exceeds the ceiling",
			card:      testCard(domain.CardStateReview, 0, 0, 300, 2.5, 20),
			outcome:   domain.ReviewOutcomeGood,
			wantState: domain.CardStateReview,
			wantDays:  365,
			wantEase:  2.5,
			wantReps:  21,
		},
		{
			name:      "grown interval is at least one day",
			card:      testCard(domain.CardStateReview, 0, 0, 0, 2.5, 1),
			outcome:   domain.ReviewOutcomeGood,
			wantState: domain.CardStateReview,
			wantDays:  1,
			wantEase:  2.5,
			wantReps:  2,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := Schedule(tc.card, tc.outcome, now, params)

			if r.State != tc.wantState {
				t.Errorf("state = %s, want %s", r.State, tc.wantState)
			}
			if r.IntervalMinutes != tc.wantMinutes {
				t.Errorf("interval minutes = %d, want %d", r.IntervalMinutes, tc.wantMinutes)
			}
			if r.IntervalDays != tc.wantDays {
				t.Errorf("interval days = %d, want %d", r.IntervalDays, tc.wantDays)
			}
			if diff := r.EaseFactor - tc.wantEase; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ease factor = %v, want %v", r.EaseFactor, tc.wantEase)
			}
			if r.Repetitions != tc.wantReps {
				t.Errorf("repetitions = %d, want %d", r.Repetitions, tc.wantReps)
			}
		})
	}
}

func TestScheduleRelearning(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		card        *domain.Card
		outcome     domain.ReviewOutcome
		wantState   domain.CardState
		wantMinutes int
		wantDays    int
		wantReps    int
	}{
		{
			name:        "again restarts the relearning step",
			card:        testCard(domain.CardStateRelearning, 0, 10, 0, 2.3, 3),
			outcome:     domain.ReviewOutcomeAgain,
			wantState:   domain.CardStateRelearning,
			wantMinutes: 10,
			wantReps:    3,
		},
		{
			name:        "hard doubles the relearning step",
			card:        testCard(domain.CardStateRelearning, 0, 10, 0, 2.3, 3),
			outcome:     domain.ReviewOutcomeHard,
			wantState:   domain.CardStateRelearning,
			wantMinutes: 20,
			wantReps:    3,
		},
		{
			name:      "good recovers to review at half the current interval",
			card:      testCard(domain.CardStateRelearning, 0, 10, 0, 2.3, 3),
			outcome:   domain.ReviewOutcomeGood,
			wantState: domain.CardStateReview,
			wantDays:  5,
			wantReps:  3, // recovery does not increment repetitions
		},
		{
			name:      "easy recovers the same way as good",
			card:      testCard(domain.CardStateRelearning, 0, 20, 0, 2.3, 3),
			outcome:   domain.ReviewOutcomeEasy,
			wantState: domain.CardStateReview,
			wantDays:  10,
			wantReps:  3,
		},
		{
			name:      "recovery interval is at least one day",
			card:      testCard(domain.CardStateRelearning, 0, 1, 0, 2.3, 3),
			outcome:   domain.ReviewOutcomeGood,
			wantState: domain.CardStateReview,
			wantDays:  1,
			wantReps:  3,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := Schedule(tc.card, tc.outcome, now, params)

			if r.State != tc.wantState {
				t.Errorf("state = %s, want %s", r.State, tc.wantState)
			}
			if r.IntervalMinutes != tc.wantMinutes {
				t.Errorf("interval minutes = %d, want %d", r.IntervalMinutes, tc.wantMinutes)
			}
			if r.IntervalDays != tc.wantDays {
				t.Errorf("interval days = %d, want %d", r.IntervalDays, tc.wantDays)
			}
			if r.Repetitions != tc.wantReps {
				t.Errorf("repetitions = %d, want %d", r.Repetitions, tc.wantReps)
			}
		})
	}
}

// TestScheduleDueDateUnits verifies the unit switch: sub-day states add
// minutes to now, Review adds days.
func TestScheduleDueDateUnits(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("learning due date is minutes from now", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)
		r := Schedule(card, domain.ReviewOutcomeGood, now, params)

		want := now.Add(10 * time.Minute)
		if !r.DueAt.Equal(want) {
			t.Errorf("due at = %v, want %v", r.DueAt, want)
		}
	})

	t.Run("relearning due date is minutes from now", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3)
		r := Schedule(card, domain.ReviewOutcomeAgain, now, params)

		want := now.Add(10 * time.Minute)
		if !r.DueAt.Equal(want) {
			t.Errorf("due at = %v, want %v", r.DueAt, want)
		}
	})

	t.Run("review due date is days from now", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3)
		r := Schedule(card, domain.ReviewOutcomeGood, now, params)

		want := now.AddDate(0, 0, 25)
		if !r.DueAt.Equal(want) {
			t.Errorf("due at = %v, want %v", r.DueAt, want)
		}
	})
}

// TestScheduleBoundsInvariant sweeps every state and outcome combination and
// checks the ease factor and interval ceilings hold everywhere.
func TestScheduleBoundsInvariant(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	states := []domain.CardState{
		domain.CardStateNew,
		domain.CardStateLearning,
		domain.CardStateReview,
		domain.CardStateRelearning,
	}
	eases := []float64{1.3, 1.31, 2.0, 2.5}
	intervals := []int{0, 1, 10, 180, 400}

	for _, state := range states {
		for _, outcome := range domain.AllReviewOutcomes {
			for _, ease := range eases {
				for _, ivl := range intervals {
					card := testCard(state, 1, ivl, ivl, ease, 2)
					r := Schedule(card, outcome, now, params)

					if r.EaseFactor < params.MinEaseFactor || r.EaseFactor > params.MaxEaseFactor {
						t.Errorf("%s/%s ease=%v ivl=%d: ease factor %v out of bounds",
							state, outcome, ease, ivl, r.EaseFactor)
					}
					if r.State == domain.CardStateReview {
						if r.IntervalDays < 1 || r.IntervalDays > params.MaximumIntervalDays {
							t.Errorf("%s/%s ease=%v ivl=%d: review interval %d out of bounds",
								state, outcome, ease, ivl, r.IntervalDays)
						}
						if r.IntervalMinutes != 0 {
							t.Errorf("%s/%s: review result carries minutes %d",
								state, outcome, r.IntervalMinutes)
						}
					} else if r.IntervalDays != 0 {
						t.Errorf("%s/%s: sub-day result carries days %d",
							state, outcome, r.IntervalDays)
					}
				}
			}
		}
	}
}

// TestScheduleDoesNotMutateCard verifies the scheduler is pure with respect
// to its input.
func TestScheduleDoesNotMutateCard(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	card := testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3)
	before := *card

	for _, outcome := range domain.AllReviewOutcomes {
		_ = Schedule(card, outcome, now, params)
	}

	if !reflect.DeepEqual(*card, before) {
		t.Errorf("card mutated by Schedule: %+v != %+v", *card, before)
	}
}

// TestScheduleIntervalModifier verifies the modifier scales Review growth
// only, never the learning steps.
func TestScheduleIntervalModifier(t *testing.T) {
	t.Parallel()
	params := NewParams(Config{IntervalModifier: 0.5})
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	review := testCard(domain.CardStateReview, 0, 0, 10, 2.5, 3)
	r := Schedule(review, domain.ReviewOutcomeGood, now, params)
	if r.IntervalDays != 12 { // floor(10 * 2.5 * 0.5)
		t.Errorf("modified review interval = %d, want 12", r.IntervalDays)
	}

	learning := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)
	r = Schedule(learning, domain.ReviewOutcomeGood, now, params)
	if r.IntervalMinutes != 10 {
		t.Errorf("learning step = %dm, want 10m untouched by modifier", r.IntervalMinutes)
	}
}

// TestScheduleFullLifecycle walks the scenario from a brand new card through
// graduation into review growth.
func TestScheduleFullLifecycle(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	card := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)

	// Good: advance to the ten minute step.
	r := Schedule(card, domain.ReviewOutcomeGood, now, params)
	if r.State != domain.CardStateLearning || r.LearningStep != 1 || r.IntervalMinutes != 10 {
		t.Fatalf("after first good: %+v", r)
	}
	r.ApplyTo(card, now)

	// Good: graduate to review at one day.
	r = Schedule(card, domain.ReviewOutcomeGood, now, params)
	if r.State != domain.CardStateReview || r.IntervalDays != 1 || r.Repetitions != 1 {
		t.Fatalf("after graduation: %+v", r)
	}
	r.ApplyTo(card, now)

	// Good in review: floor(1 * 2.5) = 2 days.
	r = Schedule(card, domain.ReviewOutcomeGood, now, params)
	if r.State != domain.CardStateReview || r.IntervalDays != 2 || r.Repetitions != 2 {
		t.Fatalf("after first review: %+v", r)
	}
}

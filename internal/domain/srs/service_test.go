package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmallory/recall-api/internal/domain"
)

func TestServiceSchedule(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("valid input delegates to the scheduler", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)

		result, err := svc.Schedule(card, domain.ReviewOutcomeGood, now)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateLearning, result.State)
		assert.Equal(t, 10, result.IntervalMinutes)
	})

	t.Run("nil card is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Schedule(nil, domain.ReviewOutcomeGood, now)
		assert.ErrorIs(t, err, ErrNilCard)
	})

	t.Run("unknown outcome is rejected", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)
		_, err := svc.Schedule(card, domain.ReviewOutcome("perfect"), now)
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})
}

func TestServicePreviews(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns one label per outcome", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)

		previews, err := svc.Previews(card, now)
		require.NoError(t, err)
		assert.Len(t, previews, len(domain.AllReviewOutcomes))
		assert.Equal(t, "10m", previews[domain.ReviewOutcomeGood])
	})

	t.Run("nil card is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Previews(nil, now)
		assert.ErrorIs(t, err, ErrNilCard)
	})
}

func TestServicePostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("moves only the due date", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateReview, 0, 0, 10, 2.3, 4)
		card.DueAt = now.AddDate(0, 0, 2)

		result, err := svc.Postpone(card, 3, now)
		require.NoError(t, err)

		assert.True(t, result.DueAt.Equal(now.AddDate(0, 0, 5)))
		assert.Equal(t, card.State, result.State)
		assert.Equal(t, card.IntervalDays, result.IntervalDays)
		assert.Equal(t, card.EaseFactor, result.EaseFactor)
		assert.Equal(t, card.Repetitions, result.Repetitions)
	})

	t.Run("nil card is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Postpone(nil, 1, now)
		assert.ErrorIs(t, err, ErrNilCard)
	})

	t.Run("non positive days are rejected", func(t *testing.T) {
		t.Parallel()
		card := testCard(domain.CardStateReview, 0, 0, 10, 2.3, 4)
		_, err := svc.Postpone(card, 0, now)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})
}

func TestServiceWithCustomParams(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	svc := NewServiceWithParams(NewParams(Config{
		LearningStepsMinutes:   []int{5, 30},
		GraduatingIntervalDays: 2,
	}))

	card := testCard(domain.CardStateNew, 0, 0, 0, 2.5, 0)
	result, err := svc.Schedule(card, domain.ReviewOutcomeGood, now)
	require.NoError(t, err)
	assert.Equal(t, 30, result.IntervalMinutes)

	card = testCard(domain.CardStateLearning, 1, 30, 0, 2.5, 0)
	result, err = svc.Schedule(card, domain.ReviewOutcomeGood, now)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStateReview, result.State)
	assert.Equal(t, 2, result.IntervalDays)
}

package srs

import (
	"testing"
	"time"

	"github.com/pmallory/recall-api/internal/domain"
)

// dueCard builds a card with an explicit state and due date for queue tests.
func dueCard(state domain.CardState, dueAt time.Time, repetitions int) *domain.Card {
	card := testCard(state, 0, 0, 0, 2.5, repetitions)
	card.DueAt = dueAt
	return card
}

func TestSelectDueOrdering(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	review := dueCard(domain.CardStateReview, now.Add(-48*time.Hour), 5)
	newCard := dueCard(domain.CardStateNew, now.Add(-1*time.Hour), 0)
	learning := dueCard(domain.CardStateLearning, now.Add(-10*time.Minute), 0)
	relearning := dueCard(domain.CardStateRelearning, now.Add(-5*time.Minute), 3)
	future := dueCard(domain.CardStateReview, now.Add(24*time.Hour), 5)

	queue := SelectDue([]*domain.Card{review, newCard, future, relearning, learning}, now, 0)

	if len(queue) != 4 {
		t.Fatalf("queue length = %d, want 4", len(queue))
	}

	// Learning and relearning outrank new, which outranks review, even though
	// the review card has been waiting the longest.
	if queue[0].ID != learning.ID {
		t.Errorf("queue[0] = %s card, want the learning card", queue[0].State)
	}
	if queue[1].ID != relearning.ID {
		t.Errorf("queue[1] = %s card, want the relearning card", queue[1].State)
	}
	if queue[2].ID != newCard.ID {
		t.Errorf("queue[2] = %s card, want the new card", queue[2].State)
	}
	if queue[3].ID != review.ID {
		t.Errorf("queue[3] = %s card, want the review card", queue[3].State)
	}
}

func TestSelectDueWithinTierOrdersByDueDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	older := dueCard(domain.CardStateReview, now.Add(-72*time.Hour), 5)
	newer := dueCard(domain.CardStateReview, now.Add(-1*time.Hour), 5)

	queue := SelectDue([]*domain.Card{newer, older}, now, 0)

	if len(queue) != 2 {
		t.Fatalf("queue length = %d, want 2", len(queue))
	}
	if queue[0].ID != older.ID {
		t.Errorf("queue[0] due %v, want the older card first", queue[0].DueAt)
	}
}

func TestSelectDueTiebreakIsDeterministic(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	due := now.Add(-1 * time.Hour)

	a := dueCard(domain.CardStateReview, due, 5)
	b := dueCard(domain.CardStateReview, due, 5)

	first := SelectDue([]*domain.Card{a, b}, now, 0)
	second := SelectDue([]*domain.Card{b, a}, now, 0)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ordering depends on input order at position %d", i)
		}
	}
}

func TestSelectDueLimit(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cards := make([]*domain.Card, 0, 30)
	for i := 0; i < 30; i++ {
		cards = append(cards, dueCard(domain.CardStateReview, now.Add(-time.Duration(i)*time.Minute), 5))
	}

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		t.Parallel()
		queue := SelectDue(cards, now, 0)
		if len(queue) != DefaultQueueLimit {
			t.Errorf("queue length = %d, want %d", len(queue), DefaultQueueLimit)
		}
	})

	t.Run("explicit limit truncates", func(t *testing.T) {
		t.Parallel()
		queue := SelectDue(cards, now, 5)
		if len(queue) != 5 {
			t.Errorf("queue length = %d, want 5", len(queue))
		}
	})

	t.Run("limit larger than the pool returns everything due", func(t *testing.T) {
		t.Parallel()
		queue := SelectDue(cards, now, 100)
		if len(queue) != 30 {
			t.Errorf("queue length = %d, want 30", len(queue))
		}
	})
}

func TestSelectDueExcludesFutureCards(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	exactlyNow := dueCard(domain.CardStateReview, now, 5)
	future := dueCard(domain.CardStateLearning, now.Add(time.Minute), 0)

	queue := SelectDue([]*domain.Card{exactlyNow, future}, now, 0)

	if len(queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(queue))
	}
	if queue[0].ID != exactlyNow.ID {
		t.Errorf("card due exactly now should be included")
	}
}

func TestCountCards(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cards := []*domain.Card{
		dueCard(domain.CardStateNew, now.Add(-time.Hour), 0),
		dueCard(domain.CardStateNew, now.Add(time.Hour), 0), // new counts even when not yet due
		dueCard(domain.CardStateLearning, now.Add(-time.Minute), 0),
		dueCard(domain.CardStateRelearning, now.Add(-time.Minute), 2),
		dueCard(domain.CardStateLearning, now.Add(time.Hour), 0), // not due, not counted
		dueCard(domain.CardStateReview, now.Add(-24*time.Hour), 5),
		dueCard(domain.CardStateReview, now.Add(24*time.Hour), 5), // not due, not counted
	}

	counts := CountCards(cards, now)

	if counts.New != 2 {
		t.Errorf("new = %d, want 2", counts.New)
	}
	if counts.Learning != 2 {
		t.Errorf("learning = %d, want 2", counts.Learning)
	}
	if counts.Due != 1 {
		t.Errorf("due = %d, want 1", counts.Due)
	}
}

func TestCountCardsEmpty(t *testing.T) {
	t.Parallel()
	counts := CountCards(nil, time.Now())
	if counts != (Counts{}) {
		t.Errorf("counts = %+v, want zero", counts)
	}
}

func TestSelectDueDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	a := dueCard(domain.CardStateReview, now.Add(-2*time.Hour), 5)
	b := dueCard(domain.CardStateLearning, now.Add(-time.Minute), 0)
	input := []*domain.Card{a, b}

	_ = SelectDue(input, now, 0)

	if input[0] != a || input[1] != b {
		t.Error("input slice was reordered")
	}
}

package srs

import (
	"sort"
	"time"

	"github.com/pmallory/recall-api/internal/domain"
)

// DefaultQueueLimit is the number of cards a review session is capped at
// when the caller does not supply a limit.
const DefaultQueueLimit = 20

// SelectDue filters the given cards down to those due at the given time and
// orders them for a review session. The input slice is not mutated.
//
// Ordering is a three-tier priority:
//
//  1. Learning and Relearning cards first - their sub-day intervals are
//     time-sensitive and must not be starved by bulk new or due cards.
//  2. New cards next.
//  3. Review cards last.
//
// Within a tier, cards are ordered by ascending due date, with the card ID as
// a final tiebreak so the ordering is total and reproducible.
func SelectDue(cards []*domain.Card, now time.Time, limit int) []*domain.Card {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}

	due := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		ti, tj := queueTier(due[i].State), queueTier(due[j].State)
		if ti != tj {
			return ti < tj
		}
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].ID.String() < due[j].ID.String()
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due
}

// queueTier maps a card state to its session priority tier; lower is sooner.
func queueTier(state domain.CardState) int {
	switch state {
	case domain.CardStateLearning, domain.CardStateRelearning:
		return 0
	case domain.CardStateNew:
		return 1
	default:
		return 2
	}
}

// Counts summarizes how much work a card collection holds at a point in time.
// The three buckets are disjoint and deliberately do not sum to the total
// card count: a Review card that is not yet due belongs to none of them.
type Counts struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Due      int `json:"due"`
}

// CountCards produces queue counts in a single pass over the cards.
//
//   - New: unstarted cards (state New with zero repetitions).
//   - Learning: Learning or Relearning cards that are due.
//   - Due: Review cards that are due.
func CountCards(cards []*domain.Card, now time.Time) Counts {
	var counts Counts
	for _, c := range cards {
		switch c.State {
		case domain.CardStateNew:
			if c.Repetitions == 0 {
				counts.New++
			}
		case domain.CardStateLearning, domain.CardStateRelearning:
			if c.IsDue(now) {
				counts.Learning++
			}
		case domain.CardStateReview:
			if c.IsDue(now) {
				counts.Due++
			}
		}
	}
	return counts
}

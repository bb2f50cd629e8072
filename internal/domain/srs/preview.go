package srs

import (
	"fmt"
	"time"

	"github.com/pmallory/recall-api/internal/domain"
)

// Previews runs the scheduler speculatively for all four outcomes and formats
// each resulting interval as a compact human-readable string, e.g. "10m",
// "1d", "3mo". Nothing is committed and the card is never mutated; calling
// this any number of times yields identical results.
//
// The returned map always contains exactly one entry per outcome.
func Previews(
	card *domain.Card,
	now time.Time,
	params *Params,
) map[domain.ReviewOutcome]string {
	previews := make(map[domain.ReviewOutcome]string, len(domain.AllReviewOutcomes))
	for _, outcome := range domain.AllReviewOutcomes {
		r := Schedule(card, outcome, now, params)
		previews[outcome] = formatResult(r)
	}
	return previews
}

// formatResult renders a scheduling result's interval in the unit its state
// implies. Sub-day intervals show minutes or whole hours; Review intervals
// show days, whole months (30d), or whole years (365d). The integer division
// is a deliberate display approximation.
func formatResult(r Result) string {
	if r.State == domain.CardStateReview {
		return formatDays(r.IntervalDays)
	}
	return formatMinutes(r.IntervalMinutes)
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh", minutes/60)
}

func formatDays(days int) string {
	switch {
	case days < 30:
		return fmt.Sprintf("%dd", days)
	case days < 365:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dy", days/365)
	}
}

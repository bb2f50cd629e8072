package srs

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pmallory/recall-api/internal/domain"
)

// DefaultAnalyticsWindowDays is the rolling window the analyzer looks back
// over when the caller does not supply one.
const DefaultAnalyticsWindowDays = 30

// Thresholds for weak-area qualification and severity banding.
const (
	weakAreaFailureRateThreshold  = 0.2
	weakAreaFailureCountThreshold = 3
	severityHighRate              = 0.5
	severityMediumRate            = 0.3
)

// Severity bands a weak area by how badly its topic is going.
type Severity string

// Severity levels, worst first.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// WeakArea is a derived, recomputed-on-demand view of one struggling topic.
// It is never persisted as authoritative state.
type WeakArea struct {
	Topic                  string    `json:"topic"`
	FailureRate            float64   `json:"failure_rate"`
	ReviewCount            int       `json:"review_count"`
	FailureCount           int       `json:"failure_count"`
	AverageResponseSeconds float64   `json:"average_response_seconds"`
	CardCount              int       `json:"card_count"`
	LastReviewedAt         time.Time `json:"last_reviewed_at"`
	Severity               Severity  `json:"severity"`
}

// topicStats accumulates per-topic review history over the analysis window.
type topicStats struct {
	total           int
	failures        int
	responseSum     float64
	responseSamples int
	lastReviewedAt  time.Time
}

func (s *topicStats) failureRate() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.failures) / float64(s.total)
}

// WeakAreas aggregates review logs from the given rolling window into
// per-topic failure statistics and returns the topics that qualify as weak,
// sorted by descending failure rate. A topic qualifies when its failure rate
// exceeds 0.2 or it has accumulated at least 3 failures in the window.
//
// Failures are Again and Hard outcomes. The cards are consulted only to count
// how many cards each topic currently holds. Empty inputs produce an empty
// result, never an error.
func WeakAreas(
	logs []domain.ReviewLogEntry,
	cards []*domain.Card,
	now time.Time,
	windowDays int,
) []WeakArea {
	stats := collectTopicStats(logs, now, windowDays)

	cardsPerTopic := make(map[string]int)
	for _, c := range cards {
		cardsPerTopic[c.Topic]++
	}

	areas := make([]WeakArea, 0, len(stats))
	for topic, ts := range stats {
		rate := ts.failureRate()
		if rate <= weakAreaFailureRateThreshold && ts.failures < weakAreaFailureCountThreshold {
			continue
		}

		area := WeakArea{
			Topic:          topic,
			FailureRate:    rate,
			ReviewCount:    ts.total,
			FailureCount:   ts.failures,
			CardCount:      cardsPerTopic[topic],
			LastReviewedAt: ts.lastReviewedAt,
			Severity:       severityFor(rate),
		}
		if ts.responseSamples > 0 {
			area.AverageResponseSeconds = ts.responseSum / float64(ts.responseSamples)
		}
		areas = append(areas, area)
	}

	sort.Slice(areas, func(i, j int) bool {
		if areas[i].FailureRate != areas[j].FailureRate {
			return areas[i].FailureRate > areas[j].FailureRate
		}
		return areas[i].Topic < areas[j].Topic
	})

	return areas
}

func severityFor(rate float64) Severity {
	switch {
	case rate >= severityHighRate:
		return SeverityHigh
	case rate >= severityMediumRate:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// collectTopicStats folds the log entries inside the window into per-topic
// accumulators. windowDays <= 0 falls back to the default window.
func collectTopicStats(
	logs []domain.ReviewLogEntry,
	now time.Time,
	windowDays int,
) map[string]*topicStats {
	if windowDays <= 0 {
		windowDays = DefaultAnalyticsWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	stats := make(map[string]*topicStats)
	for _, entry := range logs {
		if entry.ReviewedAt.Before(cutoff) || entry.ReviewedAt.After(now) {
			continue
		}

		ts := stats[entry.Topic]
		if ts == nil {
			ts = &topicStats{}
			stats[entry.Topic] = ts
		}

		ts.total++
		if entry.Outcome.IsFailure() {
			ts.failures++
		}
		if entry.ResponseSeconds != nil {
			ts.responseSum += *entry.ResponseSeconds
			ts.responseSamples++
		}
		if entry.ReviewedAt.After(ts.lastReviewedAt) {
			ts.lastReviewedAt = entry.ReviewedAt
		}
	}

	return stats
}

// Priority ranks a review recommendation.
type Priority string

// Recommendation priorities, most urgent first.
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityOptional Priority = "optional"
)

func priorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	default:
		return 3
	}
}

// Recommendation is one card's entry in a "today's plan" view. It layers
// topic-history heuristics on top of plain due status and never feeds back
// into scheduling.
type Recommendation struct {
	CardID   uuid.UUID `json:"card_id"`
	Topic    string    `json:"topic"`
	Priority Priority  `json:"priority"`
	Reason   string    `json:"reason"`
	DueAt    time.Time `json:"due_at"`
}

// Recommendations builds the per-card review plan. Not every card gets an
// entry: a card that is neither due nor backed by a badly failing topic is
// omitted entirely.
//
//   - overdue and topic failure rate > 0.3: critical
//   - overdue: high
//   - due today and topic recently struggling (rate > 0.3): high
//   - due today: normal
//   - not due but topic failure rate > 0.5: optional extra practice
func Recommendations(
	cards []*domain.Card,
	logs []domain.ReviewLogEntry,
	now time.Time,
	windowDays int,
) []Recommendation {
	stats := collectTopicStats(logs, now, windowDays)

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var recs []Recommendation
	for _, c := range cards {
		var rate float64
		if ts := stats[c.Topic]; ts != nil {
			rate = ts.failureRate()
		}

		overdue := c.DueAt.Before(dayStart)
		dueToday := !overdue && c.DueAt.Before(dayEnd)

		var priority Priority
		var reason string
		switch {
		case overdue && rate > severityMediumRate:
			priority = PriorityCritical
			reason = "overdue in a struggling topic"
		case overdue:
			priority = PriorityHigh
			reason = "overdue"
		case dueToday && rate > severityMediumRate:
			priority = PriorityHigh
			reason = "due today in a struggling topic"
		case dueToday:
			priority = PriorityNormal
			reason = "due today"
		case rate > severityHighRate:
			priority = PriorityOptional
			reason = "extra practice for a weak topic"
		default:
			continue
		}

		recs = append(recs, Recommendation{
			CardID:   c.ID,
			Topic:    c.Topic,
			Priority: priority,
			Reason:   reason,
			DueAt:    c.DueAt,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		ri, rj := priorityRank(recs[i].Priority), priorityRank(recs[j].Priority)
		if ri != rj {
			return ri < rj
		}
		if !recs[i].DueAt.Equal(recs[j].DueAt) {
			return recs[i].DueAt.Before(recs[j].DueAt)
		}
		return recs[i].CardID.String() < recs[j].CardID.String()
	})

	return recs
}

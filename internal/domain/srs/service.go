package srs

import (
	"errors"
	"time"

	"github.com/pmallory/recall-api/internal/domain"
)

// Common errors
var (
	ErrNilCard        = errors.New("card cannot be nil")
	ErrInvalidOutcome = errors.New("invalid review outcome")
	ErrInvalidDays    = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling operations. It exists so the
// service layer can inject parameters once and mock scheduling in tests; the
// underlying computations stay pure.
type Service interface {
	// Schedule computes the next scheduling state for a card and outcome.
	Schedule(card *domain.Card, outcome domain.ReviewOutcome, now time.Time) (Result, error)

	// Previews runs the scheduler speculatively for all four outcomes
	// without committing anything.
	Previews(card *domain.Card, now time.Time) (map[domain.ReviewOutcome]string, error)

	// Postpone pushes the card's due date forward by the given number of
	// days without touching the rest of its scheduling state.
	Postpone(card *domain.Card, days int, now time.Time) (Result, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

func (s *defaultService) Schedule(
	card *domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
) (Result, error) {
	if card == nil {
		return Result{}, ErrNilCard
	}
	if !outcome.IsValid() {
		return Result{}, ErrInvalidOutcome
	}

	return Schedule(card, outcome, now, s.params), nil
}

func (s *defaultService) Previews(
	card *domain.Card,
	now time.Time,
) (map[domain.ReviewOutcome]string, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	return Previews(card, now, s.params), nil
}

func (s *defaultService) Postpone(card *domain.Card, days int, now time.Time) (Result, error) {
	if card == nil {
		return Result{}, ErrNilCard
	}
	if days < 1 {
		return Result{}, ErrInvalidDays
	}

	return Result{
		State:           card.State,
		LearningStep:    card.LearningStep,
		IntervalMinutes: card.IntervalMinutes,
		IntervalDays:    card.IntervalDays,
		EaseFactor:      card.EaseFactor,
		Repetitions:     card.Repetitions,
		DueAt:           card.DueAt.AddDate(0, 0, days),
	}, nil
}

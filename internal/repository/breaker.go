package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/yourusername/race-scorer/internal/models"
)

// BreakerObservationRepository stops querying the observation store after a
// run of consecutive failures and probes it again once the timeout elapses.
type BreakerObservationRepository struct {
	next    ObservationRepository
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerObservationRepository trips after maxFailures consecutive failures
func NewBreakerObservationRepository(next ObservationRepository, maxFailures uint32, timeout time.Duration, logger *logrus.Logger) *BreakerObservationRepository {
	if maxFailures == 0 {
		maxFailures = 1
	}
	if logger == nil {
		logger = logrus.New()
	}
	settings := gobreaker.Settings{
		Name:        "observation-store",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
		// cancellation and missing rows say nothing about store health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) ||
				errors.Is(err, models.ErrNotFound)
		},
	}
	return &BreakerObservationRepository{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// State returns the current breaker state
func (b *BreakerObservationRepository) State() gobreaker.State {
	return b.breaker.State()
}

// FindObservations delegates unless the breaker is open
func (b *BreakerObservationRepository) FindObservations(ctx context.Context, q models.ObservationQuery) ([]*models.FactorObservation, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.FindObservations(ctx, q)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.([]*models.FactorObservation), nil
}

// DistinctValues delegates unless the breaker is open
func (b *BreakerObservationRepository) DistinctValues(ctx context.Context, venue, factorID string, fromYear, toYear int) ([]string, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.DistinctValues(ctx, venue, factorID, fromYear, toYear)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.([]string), nil
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", models.ErrDataStoreUnavailable, err)
	}
	return err
}

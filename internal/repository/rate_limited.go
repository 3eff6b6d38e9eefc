package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/race-scorer/internal/models"
	"golang.org/x/time/rate"
)

// RateLimitedObservationRepository throttles queries against the observation
// store. One limiter is shared by every worker of a batch.
type RateLimitedObservationRepository struct {
	next    ObservationRepository
	limiter *rate.Limiter
}

// NewRateLimitedObservationRepository wraps next with a token bucket of the given rate and burst
func NewRateLimitedObservationRepository(next ObservationRepository, perSecond float64, burst int) *RateLimitedObservationRepository {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedObservationRepository{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// FindObservations waits for a token and delegates
func (r *RateLimitedObservationRepository) FindObservations(ctx context.Context, q models.ObservationQuery) ([]*models.FactorObservation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("observation query throttled: %w", err)
	}
	return r.next.FindObservations(ctx, q)
}

// DistinctValues waits for a token and delegates
func (r *RateLimitedObservationRepository) DistinctValues(ctx context.Context, venue, factorID string, fromYear, toYear int) ([]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("observation query throttled: %w", err)
	}
	return r.next.DistinctValues(ctx, venue, factorID, fromYear, toYear)
}

package repository

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/race-scorer/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race        RaceRepository
	Runner      RunnerRepository
	Observation ObservationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	validate := validator.New()
	return &Repositories{
		Race:        NewPostgresRaceRepository(db, validate),
		Runner:      NewPostgresRunnerRepository(db, validate),
		Observation: NewPostgresObservationRepository(db),
	}, nil
}

// WithObservationRateLimit wraps the observation repository in a shared query limiter
func (r *Repositories) WithObservationRateLimit(perSecond float64, burst int) *Repositories {
	if perSecond <= 0 {
		return r
	}
	limited := *r
	limited.Observation = NewRateLimitedObservationRepository(r.Observation, perSecond, burst)
	return &limited
}

// WithObservationBreaker wraps the observation repository in a circuit breaker
func (r *Repositories) WithObservationBreaker(maxFailures int, timeout time.Duration, logger *logrus.Logger) *Repositories {
	if maxFailures <= 0 {
		return r
	}
	guarded := *r
	guarded.Observation = NewBreakerObservationRepository(r.Observation, uint32(maxFailures), timeout, logger)
	return &guarded
}

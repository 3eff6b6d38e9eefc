package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/race-scorer/internal/models"
)

// RaceRepository defines the interface for race data access
type RaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Race, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Race, error)
}

// RunnerRepository defines the interface for runner data access
type RunnerRepository interface {
	GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Runner, error)
}

// ObservationRepository defines the interface for historical factor observations
type ObservationRepository interface {
	FindObservations(ctx context.Context, q models.ObservationQuery) ([]*models.FactorObservation, error)
	DistinctValues(ctx context.Context, venue, factorID string, fromYear, toYear int) ([]string, error)
}

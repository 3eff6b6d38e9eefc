package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/models"
	"github.com/yourusername/race-scorer/internal/scoring"
)

// MockRaceRepository mocks race repository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Race, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Race, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

// MockRunnerRepository mocks runner repository
type MockRunnerRepository struct {
	mock.Mock
}

func (m *MockRunnerRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Runner, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Runner), args.Error(1)
}

// MockRaceScoringEngine mocks the race scorer
type MockRaceScoringEngine struct {
	mock.Mock
}

func (m *MockRaceScoringEngine) ScoreRace(ctx context.Context, race *models.Race, runners []*models.Runner) (*scoring.RaceScore, error) {
	args := m.Called(ctx, race, runners)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.RaceScore), args.Error(1)
}

// MockValueLister mocks the observation value listing
type MockValueLister struct {
	mock.Mock
}

func (m *MockValueLister) DistinctValues(ctx context.Context, venue, factorID string, fromYear, toYear int) ([]string, error) {
	args := m.Called(ctx, venue, factorID, fromYear, toYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAbsoluteScoringEngine mocks the absolute scorer
type MockAbsoluteScoringEngine struct {
	mock.Mock
}

func (m *MockAbsoluteScoringEngine) ScoreFactorAbsolute(ctx context.Context, venue, factorID string, value factor.Value) (scoring.AbsoluteScore, error) {
	args := m.Called(ctx, venue, factorID, value)
	return args.Get(0).(scoring.AbsoluteScore), args.Error(1)
}

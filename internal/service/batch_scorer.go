package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/race-scorer/internal/logger"
	"github.com/yourusername/race-scorer/internal/metrics"
	"github.com/yourusername/race-scorer/internal/models"
	"github.com/yourusername/race-scorer/internal/repository"
	"github.com/yourusername/race-scorer/internal/scoring"
)

// Batch triggers
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// DefaultBatchWorkers is used when no worker count is configured
const DefaultBatchWorkers = 4

// RaceScoringEngine scores one race
type RaceScoringEngine interface {
	ScoreRace(ctx context.Context, race *models.Race, runners []*models.Runner) (*scoring.RaceScore, error)
}

// SkippedRace records a race dropped from a batch
type SkippedRace struct {
	RaceID  uuid.UUID `json:"race_id"`
	RaceKey string    `json:"race"`
	Reason  string    `json:"reason"`
}

// BatchReport summarizes one batch run
type BatchReport struct {
	RunID    uuid.UUID            `json:"run_id"`
	Trigger  string               `json:"trigger"`
	Results  []*scoring.RaceScore `json:"results"`
	Skipped  []SkippedRace        `json:"skipped,omitempty"`
	Duration time.Duration        `json:"duration"`
}

// BatchScorer scores many races with a bounded worker pool. A race that
// fails is skipped and the batch continues.
type BatchScorer struct {
	races   repository.RaceRepository
	runners repository.RunnerRepository
	engine  RaceScoringEngine
	workers int
	logger  *logrus.Logger
	scoring *logger.ScoringLogger
}

// NewBatchScorer creates a new batch scorer
func NewBatchScorer(
	races repository.RaceRepository,
	runners repository.RunnerRepository,
	engine RaceScoringEngine,
	workers int,
	log *logrus.Logger,
) *BatchScorer {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	if log == nil {
		log = logrus.New()
	}
	return &BatchScorer{
		races:   races,
		runners: runners,
		engine:  engine,
		workers: workers,
		logger:  log,
		scoring: logger.NewScoringLogger(log),
	}
}

// ScoreRaceByID loads and scores a single race
func (b *BatchScorer) ScoreRaceByID(ctx context.Context, raceID uuid.UUID) (*scoring.RaceScore, error) {
	race, err := b.races.GetByID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get race %s: %w", raceID, err)
	}
	return b.scoreRace(ctx, race)
}

// ScoreDate scores every race run on a calendar day
func (b *BatchScorer) ScoreDate(ctx context.Context, date time.Time, trigger string) (*BatchReport, error) {
	races, err := b.races.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list races for %s: %w", date.Format("2006-01-02"), err)
	}
	return b.ScoreRaces(ctx, races, trigger)
}

// ScoreDateRange scores every race between start and end inclusive
func (b *BatchScorer) ScoreDateRange(ctx context.Context, start, end time.Time, trigger string) (*BatchReport, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("date range end %s is before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	races, err := b.races.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	return b.ScoreRaces(ctx, races, trigger)
}

// ScoreRaces scores the given races concurrently. Results keep the input
// order; skipped races are reported, not returned as errors. Only
// cancellation of ctx fails the batch.
func (b *BatchScorer) ScoreRaces(ctx context.Context, races []*models.Race, trigger string) (*BatchReport, error) {
	start := time.Now()
	runID := uuid.New()
	log := b.logger.WithFields(logrus.Fields{"run_id": runID, "trigger": trigger, "races": len(races)})
	log.Info("Batch scoring started")

	results := make([]*scoring.RaceScore, len(races))
	failures := make([]error, len(races))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, race := range races {
		i, race := i, race
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := b.scoreRace(gctx, race)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failures[i] = err
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s aborted: %w", runID, err)
	}

	report := &BatchReport{RunID: runID, Trigger: trigger}
	for i, race := range races {
		if failures[i] != nil {
			b.scoring.LogRaceSkipped(race.Key(), failures[i])
			metrics.RecordRaceSkipped()
			report.Skipped = append(report.Skipped, SkippedRace{
				RaceID:  race.ID,
				RaceKey: race.Key(),
				Reason:  failures[i].Error(),
			})
			continue
		}
		report.Results = append(report.Results, results[i])
	}
	report.Duration = time.Since(start)

	metrics.RecordBatchRun(trigger, report.Duration.Seconds())
	b.scoring.LogBatchCompleted(runID.String(), len(report.Results), len(report.Skipped),
		float64(report.Duration.Milliseconds()))
	return report, nil
}

func (b *BatchScorer) scoreRace(ctx context.Context, race *models.Race) (*scoring.RaceScore, error) {
	runners, err := b.runners.GetByRaceID(ctx, race.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get runners for %s: %w", race.Key(), err)
	}
	return b.engine.ScoreRace(ctx, race, runners)
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/race-scorer/internal/service"
)

// DailyScorer scores every race of a calendar day
type DailyScorer interface {
	ScoreDate(ctx context.Context, date time.Time, trigger string) (*service.BatchReport, error)
}

// Scheduler manages scheduled scoring jobs
type Scheduler struct {
	cron       *cron.Cron
	scorer     DailyScorer
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
	now        func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(scorer DailyScorer, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		scorer:     scorer,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 2 * time.Hour,
		now:        time.Now,
	}
}

// ScheduleDailyScoring scores the current day's races on every tick of cronExpression
func (s *Scheduler) ScheduleDailyScoring(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.runDailyScoring)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled daily scoring job")

	return nil
}

func (s *Scheduler) runDailyScoring() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	date := s.now().UTC()
	log := s.logger.WithField("date", date.Format("2006-01-02"))
	log.Info("Starting scheduled scoring")

	report, err := s.scorer.ScoreDate(ctx, date, service.TriggerScheduled)
	if err != nil {
		log.WithError(err).Error("Scheduled scoring failed")
		return
	}
	log.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"scored":  len(report.Results),
		"skipped": len(report.Skipped),
	}).Info("Scheduled scoring completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}

	return nextRun
}

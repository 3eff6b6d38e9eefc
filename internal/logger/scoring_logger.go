package logger

import (
	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for race scoring.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger. A nil base logger gets a
// default logrus instance.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogRaceScored logs a completed race.
func (sl *ScoringLogger) LogRaceScored(raceKey string, runners, factorsUsed, factorsExcluded, factorsFailed int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"race":             raceKey,
		"runners":          runners,
		"factors_used":     factorsUsed,
		"factors_excluded": factorsExcluded,
		"factors_failed":   factorsFailed,
		"duration_ms":      durationMs,
	}).Info("Race scored")
}

// LogRaceSkipped logs a race dropped from a batch.
func (sl *ScoringLogger) LogRaceSkipped(raceKey string, err error) {
	sl.WithFields(logrus.Fields{
		"race": raceKey,
	}).WithError(err).Warn("Race skipped")
}

// LogFactorExcluded logs a factor left out of a race's standardization.
func (sl *ScoringLogger) LogFactorExcluded(raceKey, factorID, reason string, validRunners int) {
	sl.WithFields(logrus.Fields{
		"race":          raceKey,
		"factor_id":     factorID,
		"reason":        reason,
		"valid_runners": validRunners,
	}).Debug("Factor excluded from race")
}

// LogLookupFailed logs a data-store failure for one factor value.
func (sl *ScoringLogger) LogLookupFailed(raceKey, factorID, valueKey string, err error) {
	sl.WithFields(logrus.Fields{
		"race":      raceKey,
		"factor_id": factorID,
		"value":     valueKey,
	}).WithError(err).Error("Factor statistic lookup failed")
}

// LogBatchCompleted logs the summary of a batch run.
func (sl *ScoringLogger) LogBatchCompleted(runID string, scored, skipped int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"run_id":      runID,
		"scored":      scored,
		"skipped":     skipped,
		"duration_ms": durationMs,
	}).Info("Batch scoring completed")
}

// LogFactorCurated logs a factor curation scan.
func (sl *ScoringLogger) LogFactorCurated(venue, factorID string, values, favorable int) {
	sl.WithFields(logrus.Fields{
		"venue":     venue,
		"factor_id": factorID,
		"values":    values,
		"favorable": favorable,
	}).Info("Factor curated")
}

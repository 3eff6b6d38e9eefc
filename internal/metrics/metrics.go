// Package metrics provides the centralized Prometheus registry for the race scorer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "race_scorer"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RacesScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "races_scored_total",
		Help:      "Total number of races processed by status",
	}, []string{"status"})
	FactorLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "factor_lookups_total",
		Help:      "Total number of factor statistic lookups by result",
	}, []string{"result"})
	FactorsExcludedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "factors_excluded_total",
		Help:      "Total number of race factors excluded from scoring by reason",
	}, []string{"reason"})
	BatchRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_runs_total",
		Help:      "Total number of batch scoring runs by trigger",
	}, []string{"trigger"})
	SharedCacheErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shared_cache_errors_total",
		Help:      "Total number of failed shared statistic cache operations",
	})
)

// Gauge metrics
var (
	StatisticCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "statistic_cache_hit_ratio",
		Help:      "Hit ratio of the factor statistic cache",
	})
	StatisticCacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "statistic_cache_items",
		Help:      "Number of factor statistics currently cached",
	})
)

// Histogram metrics
var (
	RaceScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "race_scoring_duration_seconds",
		Help:      "Duration of scoring a single race in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch scoring runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	AbsoluteScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "absolute_profitability_score",
		Help:      "Distribution of absolute profitability scores",
		Buckets:   []float64{-7, -2, 0, 2, 7},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RacesScoredTotal)
		registry.MustRegister(FactorLookupsTotal)
		registry.MustRegister(FactorsExcludedTotal)
		registry.MustRegister(BatchRunsTotal)
		registry.MustRegister(SharedCacheErrorsTotal)

		registry.MustRegister(StatisticCacheHitRatio)
		registry.MustRegister(StatisticCacheItems)

		registry.MustRegister(RaceScoringDuration)
		registry.MustRegister(BatchDuration)
		registry.MustRegister(AbsoluteScore)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// Lookup results
const (
	LookupHit          = "history"
	LookupNoHistory    = "no_history"
	LookupCached       = "cached"
	LookupSharedCached = "shared_cached"
	LookupError        = "error"
)

// RecordFactorLookup records the outcome of a factor statistic lookup.
func RecordFactorLookup(result string) {
	FactorLookupsTotal.WithLabelValues(result).Inc()
}

// RecordSharedCacheError records a failed shared cache read or write.
func RecordSharedCacheError() {
	SharedCacheErrorsTotal.Inc()
}

// RecordFactorExcluded records a factor dropped from a race.
// reason should be one of: "thin_field", "disabled", "lookup_failed"
func RecordFactorExcluded(reason string) {
	FactorsExcludedTotal.WithLabelValues(reason).Inc()
}

// RecordRaceScored records a scored race and its duration.
func RecordRaceScored(durationSeconds float64) {
	RacesScoredTotal.WithLabelValues("scored").Inc()
	RaceScoringDuration.Observe(durationSeconds)
}

// RecordRaceSkipped records a race skipped because scoring failed.
func RecordRaceSkipped() {
	RacesScoredTotal.WithLabelValues("skipped").Inc()
}

// RecordBatchRun records a completed batch run.
func RecordBatchRun(trigger string, durationSeconds float64) {
	BatchRunsTotal.WithLabelValues(trigger).Inc()
	BatchDuration.Observe(durationSeconds)
}

// UpdateStatisticCache updates the statistic cache gauges.
func UpdateStatisticCache(hitRatio float64, items int) {
	StatisticCacheHitRatio.Set(hitRatio)
	StatisticCacheItems.Set(float64(items))
}

// ObserveAbsoluteScore records an absolute profitability score.
func ObserveAbsoluteScore(score float64) {
	AbsoluteScore.Observe(score)
}

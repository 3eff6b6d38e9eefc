package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/logger"
	"github.com/yourusername/race-scorer/internal/metrics"
	"github.com/yourusername/race-scorer/internal/models"
	"golang.org/x/sync/errgroup"
)

// Exclusion reasons
const (
	ExcludedThinField    = "thin_field"
	ExcludedDisabled     = "disabled"
	ExcludedLookupFailed = "lookup_failed"
)

// DefaultFactorWorkers bounds concurrent factor lookups within one race
const DefaultFactorWorkers = 8

// RaceScorerConfig configures a RaceScorer
type RaceScorerConfig struct {
	Weights        VenueWeights
	HalfConfidence float64
	FactorWorkers  int
}

// RaceScorer ranks the runners of a race in two passes: statistics are
// collected into one immutable field sample per factor, then every runner is
// scored from those samples alone.
type RaceScorer struct {
	source         StatisticSource
	catalog        *factor.Catalog
	weights        VenueWeights
	halfConfidence float64
	factorWorkers  int
	logger         *logger.ScoringLogger
}

// NewRaceScorer creates a new race scorer
func NewRaceScorer(source StatisticSource, catalog *factor.Catalog, cfg RaceScorerConfig, log *logrus.Logger) (*RaceScorer, error) {
	if source == nil {
		return nil, fmt.Errorf("statistic source is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("factor catalog is required")
	}
	if cfg.HalfConfidence <= 0 {
		cfg.HalfConfidence = DefaultHalfConfidence
	}
	if cfg.FactorWorkers <= 0 {
		cfg.FactorWorkers = DefaultFactorWorkers
	}
	return &RaceScorer{
		source:         source,
		catalog:        catalog,
		weights:        cfg.Weights,
		halfConfidence: cfg.HalfConfidence,
		factorWorkers:  cfg.FactorWorkers,
		logger:         logger.NewScoringLogger(log),
	}, nil
}

// Catalog returns the factor catalog used by the scorer
func (s *RaceScorer) Catalog() *factor.Catalog {
	return s.catalog
}

type factorOutcome struct {
	sample   RaceFieldSample
	excluded string
	valid    int
}

// ScoreRace scores and ranks every runner of a race. Factors whose lookups
// fail are dropped from the race; if every attempted factor fails the race
// fails with models.ErrDataStoreUnavailable.
func (s *RaceScorer) ScoreRace(ctx context.Context, race *models.Race, runners []*models.Runner) (*RaceScore, error) {
	if race == nil {
		return nil, fmt.Errorf("race is required")
	}
	if len(runners) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNoRunners, race.Key())
	}
	start := time.Now()

	factors := s.catalog.Factors()
	outcomes := make([]factorOutcome, len(factors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.factorWorkers)
	for i, f := range factors {
		if s.weights.Disabled(race.Venue, f.ID) {
			outcomes[i] = factorOutcome{excluded: ExcludedDisabled}
			continue
		}
		i, f := i, f
		g.Go(func() error {
			outcome, err := s.collect(gctx, race, runners, f)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				outcomes[i] = factorOutcome{excluded: ExcludedLookupFailed}
				return nil
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring %s: %w", race.Key(), err)
	}

	var samples []RaceFieldSample
	var excluded, failed []string
	attempted := 0
	for i, o := range outcomes {
		id := factors[i].ID
		switch o.excluded {
		case "":
			attempted++
			samples = append(samples, o.sample)
		case ExcludedLookupFailed:
			attempted++
			failed = append(failed, id)
			metrics.RecordFactorExcluded(ExcludedLookupFailed)
		case ExcludedThinField:
			excluded = append(excluded, id)
			metrics.RecordFactorExcluded(ExcludedThinField)
			s.logger.LogFactorExcluded(race.Key(), id, ExcludedThinField, o.valid)
		default:
			excluded = append(excluded, id)
			metrics.RecordFactorExcluded(o.excluded)
		}
	}
	if attempted > 0 && len(failed) == attempted {
		return nil, fmt.Errorf("%w: all %d factor lookups failed for %s", models.ErrDataStoreUnavailable, attempted, race.Key())
	}

	result := ScoreField(race, runners, samples, s.weights, s.halfConfidence)
	result.ExcludedFactors = excluded
	result.FailedFactors = failed
	result.Duration = time.Since(start)

	metrics.RecordRaceScored(result.Duration.Seconds())
	s.logger.LogRaceScored(race.Key(), len(runners), len(samples), len(excluded), len(failed),
		float64(result.Duration.Microseconds())/1000)
	return result, nil
}

// collect is pass one for a single factor: derive each runner's value and
// resolve its statistic. Runners sharing a value share one lookup.
func (s *RaceScorer) collect(ctx context.Context, race *models.Race, runners []*models.Runner, f *factor.Factor) (factorOutcome, error) {
	type valued struct {
		index int
		value factor.Value
	}
	var valid []valued
	for i, r := range runners {
		if v, ok := f.Extract(r, race); ok {
			valid = append(valid, valued{index: i, value: v})
		}
	}
	if len(valid) < MinFieldSample {
		return factorOutcome{excluded: ExcludedThinField, valid: len(valid)}, nil
	}

	lookups := make(map[string]StatisticLookup, len(valid))
	entries := make([]FieldEntry, 0, len(valid))
	for _, v := range valid {
		key := v.value.Key()
		lookup, ok := lookups[key]
		if !ok {
			var err error
			lookup, err = s.source.Lookup(ctx, race.Venue, f.ID, v.value)
			if err != nil {
				s.logger.LogLookupFailed(race.Key(), f.ID, key, err)
				return factorOutcome{}, err
			}
			lookups[key] = lookup
		}
		entries = append(entries, FieldEntry{
			RunnerIndex: v.index,
			Value:       v.value,
			Metrics:     ComposeRawMetrics(lookup.Statistic),
			HasHistory:  lookup.HasHistory,
		})
	}
	return factorOutcome{sample: NewRaceFieldSample(f.ID, f.Label, entries), valid: len(valid)}, nil
}

// ScoreField is pass two: it standardizes every sample, applies shrinkage and
// the bounded transform, weights by venue and ranks the runners. It reads
// only its arguments.
func ScoreField(race *models.Race, runners []*models.Runner, samples []RaceFieldSample, weights VenueWeights, halfConfidence float64) *RaceScore {
	scores := make([]RunnerScore, len(runners))
	for i, r := range runners {
		scores[i] = RunnerScore{Runner: r}
	}

	for _, sample := range samples {
		if !sample.Standardizable() {
			continue
		}
		weight := weights.Weight(race.Venue, sample.FactorID)
		for _, entry := range sample.entries {
			i := entry.RunnerIndex
			if i < 0 || i >= len(scores) {
				continue
			}
			zHit, zRet := sample.ZScores(entry.Metrics)
			shr := Shrinkage(entry.Metrics.NMin, halfConfidence)
			score := FactorScore(zHit, zRet, shr)
			weighted := score * weight

			scores[i].TotalScore += weighted
			scores[i].Factors = append(scores[i].Factors, FactorBreakdown{
				FactorID:   sample.FactorID,
				Label:      sample.Label,
				ValueKey:   entry.Value.Key(),
				HitRaw:     entry.Metrics.HitRaw,
				RetRaw:     entry.Metrics.RetRaw,
				NMin:       entry.Metrics.NMin,
				HasHistory: entry.HasHistory,
				ZHit:       zHit,
				ZRet:       zRet,
				Shrinkage:  shr,
				BaseCalc:   BaseCalc(zHit, zRet),
				Score:      score,
				Weight:     weight,
				Weighted:   weighted,
			})
		}
	}

	rankRunners(scores)
	return &RaceScore{Race: race, Runners: scores}
}

// rankRunners orders by total score descending, post position ascending on ties
func rankRunners(scores []RunnerScore) {
	sort.SliceStable(scores, func(a, b int) bool {
		if scores[a].TotalScore != scores[b].TotalScore {
			return scores[a].TotalScore > scores[b].TotalScore
		}
		return scores[a].Runner.PostPosition < scores[b].Runner.PostPosition
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
}

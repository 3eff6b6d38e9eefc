package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/logger"
	"github.com/yourusername/race-scorer/internal/scoring"
)

const curationWorkers = 4

// ValueLister lists the observed values of a factor at a venue
type ValueLister interface {
	DistinctValues(ctx context.Context, venue, factorID string, fromYear, toYear int) ([]string, error)
}

// AbsoluteScoringEngine scores one factor value without reference to a race
type AbsoluteScoringEngine interface {
	ScoreFactorAbsolute(ctx context.Context, venue, factorID string, value factor.Value) (scoring.AbsoluteScore, error)
}

// CurationReport lists the absolute scores of every value of one factor at a venue
type CurationReport struct {
	Venue     string                  `json:"venue"`
	FactorID  string                  `json:"factor_id"`
	Scores    []scoring.AbsoluteScore `json:"scores"`
	Dropped   int                     `json:"dropped"`
	Favorable int                     `json:"favorable"`
}

// CurationService ranks factor values by absolute profitability
type CurationService struct {
	values  ValueLister
	scorer  AbsoluteScoringEngine
	catalog *factor.Catalog
	years   scoring.YearWeights
	logger  *logger.ScoringLogger
}

// NewCurationService creates a new curation service
func NewCurationService(values ValueLister, scorer AbsoluteScoringEngine, catalog *factor.Catalog, years scoring.YearWeights, log *logrus.Logger) *CurationService {
	return &CurationService{
		values:  values,
		scorer:  scorer,
		catalog: catalog,
		years:   years,
		logger:  logger.NewScoringLogger(log),
	}
}

// CurateFactor scores every value of a factor observed at a venue. Values
// with fewer than minSamples win and place samples combined are dropped.
// Scores are sorted by RGS descending, then by value.
func (c *CurationService) CurateFactor(ctx context.Context, venue, factorID string, minSamples int) (*CurationReport, error) {
	if _, err := c.catalog.Get(factorID); err != nil {
		return nil, err
	}

	first, last := c.years.Window()
	keys, err := c.values.DistinctValues(ctx, venue, factorID, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to list values of %s at %s: %w", factorID, venue, err)
	}

	scores := make([]scoring.AbsoluteScore, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(curationWorkers)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			score, err := c.scorer.ScoreFactorAbsolute(gctx, venue, factorID, factor.ParseKey(key))
			if err != nil {
				return fmt.Errorf("failed to score %s=%s: %w", factorID, key, err)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &CurationReport{Venue: venue, FactorID: factorID}
	for _, s := range scores {
		if s.Statistic.WinCount+s.Statistic.PlaceCount < minSamples {
			report.Dropped++
			continue
		}
		if s.Band == scoring.BandFavorable || s.Band == scoring.BandStronglyFavorable {
			report.Favorable++
		}
		report.Scores = append(report.Scores, s)
	}

	sort.SliceStable(report.Scores, func(i, j int) bool {
		if report.Scores[i].RGS != report.Scores[j].RGS {
			return report.Scores[i].RGS > report.Scores[j].RGS
		}
		return report.Scores[i].ValueKey < report.Scores[j].ValueKey
	})

	c.logger.LogFactorCurated(venue, factorID, len(report.Scores), report.Favorable)
	return report, nil
}

// Package service wires the scoring engine to its data sources and runs it
// over single races, batches of races and factor curation scans.
package service

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/race-scorer/internal/config"
	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/scoring"
)

// Engine bundles the scorers built from one configuration
type Engine struct {
	Tables   scoring.Tables
	Catalog  *factor.Catalog
	Source   *scoring.ReturnRateEngine
	Race     *scoring.RaceScorer
	Absolute *scoring.AbsoluteScorer
	Cache    *scoring.StatisticCache
}

// BuildTables builds the immutable reference tables from configuration
func BuildTables(cfg *config.Config) (scoring.Tables, error) {
	years, err := scoring.NewLinearYearWeights(cfg.Scoring.FirstYear, cfg.Scoring.LastYear)
	if err != nil {
		return scoring.Tables{}, fmt.Errorf("invalid year window: %w", err)
	}

	odds := scoring.DefaultOddsCorrection()
	if len(cfg.OddsCorrection.Win) > 0 || len(cfg.OddsCorrection.Place) > 0 {
		odds, err = scoring.NewOddsCorrection(toBuckets(cfg.OddsCorrection.Win), toBuckets(cfg.OddsCorrection.Place))
		if err != nil {
			return scoring.Tables{}, fmt.Errorf("invalid odds correction: %w", err)
		}
	}

	return scoring.Tables{
		Years:  years,
		Odds:   odds,
		Venues: scoring.NewVenueWeights(cfg.VenueWeights),
	}, nil
}

func toBuckets(in []config.OddsBucketConfig) []scoring.OddsBucket {
	out := make([]scoring.OddsBucket, len(in))
	for i, b := range in {
		out[i] = scoring.OddsBucket{MaxOdds: b.MaxOdds, Multiplier: b.Multiplier}
	}
	return out
}

// NewEngine builds the return-rate engine, race scorer and absolute scorer
// over an observation reader. Extra options are applied to the return-rate
// engine after the configured ones.
func NewEngine(cfg *config.Config, reader scoring.ObservationReader, logger *logrus.Logger, extra ...scoring.EngineOption) (*Engine, error) {
	tables, err := BuildTables(cfg)
	if err != nil {
		return nil, err
	}

	cache := scoring.NewStatisticCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
	opts := append([]scoring.EngineOption{
		scoring.WithTargetPayout(cfg.Scoring.TargetPayout),
		scoring.WithStatisticCache(cache),
	}, extra...)
	source, err := scoring.NewReturnRateEngine(reader, tables.Years, tables.Odds, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create return rate engine: %w", err)
	}

	catalog := factor.Default()
	race, err := scoring.NewRaceScorer(source, catalog, scoring.RaceScorerConfig{
		Weights:        tables.Venues,
		HalfConfidence: cfg.Scoring.HalfConfidence,
		FactorWorkers:  cfg.Scoring.FactorWorkers,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create race scorer: %w", err)
	}

	return &Engine{
		Tables:   tables,
		Catalog:  catalog,
		Source:   source,
		Race:     race,
		Absolute: scoring.NewAbsoluteScorer(source, catalog),
		Cache:    cache,
	}, nil
}

package scoring

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/metrics"
	"github.com/yourusername/race-scorer/internal/models"
)

var payoutUnit = decimal.NewFromInt(100)

// ObservationReader reads historical factor observations
type ObservationReader interface {
	FindObservations(ctx context.Context, q models.ObservationQuery) ([]*models.FactorObservation, error)
}

// StatisticLookup is the result of a lookup that reached the data store.
// HasHistory is false when no observation matched and Statistic holds the
// neutral default.
type StatisticLookup struct {
	Statistic  models.FactorStatistic `json:"statistic"`
	HasHistory bool                   `json:"has_history"`
}

// SharedStatisticStore is a statistic cache shared between processes.
// Implementations report a miss as found=false with a nil error.
type SharedStatisticStore interface {
	GetStatistic(ctx context.Context, key string) (StatisticLookup, bool, error)
	SetStatistic(ctx context.Context, key string, lookup StatisticLookup) error
}

// StatisticSource resolves the statistic of a (venue, factor, value) tuple
type StatisticSource interface {
	Lookup(ctx context.Context, venue, factorID string, value factor.Value) (StatisticLookup, error)
}

// ReturnRateEngine computes bias-corrected win and place profitability
// from historical observations.
type ReturnRateEngine struct {
	reader       ObservationReader
	years        YearWeights
	odds         OddsCorrection
	targetPayout float64
	cache        *StatisticCache
	shared       SharedStatisticStore
}

// EngineOption configures a ReturnRateEngine
type EngineOption func(*ReturnRateEngine)

// WithTargetPayout overrides the notional payout per simulated bet
func WithTargetPayout(payout float64) EngineOption {
	return func(e *ReturnRateEngine) {
		if payout > 0 {
			e.targetPayout = payout
		}
	}
}

// WithStatisticCache enables caching of lookups
func WithStatisticCache(c *StatisticCache) EngineOption {
	return func(e *ReturnRateEngine) {
		e.cache = c
	}
}

// WithSharedStore adds a cross-process cache consulted after the local one.
// Shared store errors degrade to a data store read.
func WithSharedStore(store SharedStatisticStore) EngineOption {
	return func(e *ReturnRateEngine) {
		e.shared = store
	}
}

// NewReturnRateEngine creates a new engine
func NewReturnRateEngine(reader ObservationReader, years YearWeights, odds OddsCorrection, opts ...EngineOption) (*ReturnRateEngine, error) {
	if reader == nil {
		return nil, fmt.Errorf("observation reader is required")
	}
	if len(years.weights) == 0 {
		return nil, fmt.Errorf("year weight schedule is required")
	}
	e := &ReturnRateEngine{
		reader:       reader,
		years:        years,
		odds:         odds,
		targetPayout: DefaultTargetPayout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Lookup returns the statistic for a factor value at a venue. A data-store
// failure is returned as an error wrapping models.ErrDataStoreUnavailable;
// an absence of history is not an error.
func (e *ReturnRateEngine) Lookup(ctx context.Context, venue, factorID string, value factor.Value) (StatisticLookup, error) {
	if !value.Valid() {
		return StatisticLookup{}, fmt.Errorf("%w: %s=%q", models.ErrInvalidFactorValue, factorID, value.Key())
	}

	first, last := e.years.Window()
	key := statisticKey(venue, factorID, value.Key(), first, last)
	if e.cache != nil {
		if lookup, ok := e.cache.Get(key); ok {
			metrics.RecordFactorLookup(metrics.LookupCached)
			return lookup, nil
		}
	}
	if e.shared != nil {
		lookup, found, err := e.shared.GetStatistic(ctx, key)
		switch {
		case err != nil:
			metrics.RecordSharedCacheError()
		case found:
			metrics.RecordFactorLookup(metrics.LookupSharedCached)
			if e.cache != nil {
				e.cache.Set(key, lookup)
			}
			return lookup, nil
		}
	}

	observations, err := e.reader.FindObservations(ctx, models.ObservationQuery{
		Venue:    venue,
		FactorID: factorID,
		ValueKey: value.Key(),
		FromYear: first,
		ToYear:   last,
	})
	if err != nil {
		metrics.RecordFactorLookup(metrics.LookupError)
		return StatisticLookup{}, fmt.Errorf("%w: %s/%s=%s: %w", models.ErrDataStoreUnavailable, venue, factorID, value.Key(), err)
	}

	stat, ok := e.Aggregate(observations)
	lookup := StatisticLookup{Statistic: stat, HasHistory: ok}
	if ok {
		metrics.RecordFactorLookup(metrics.LookupHit)
	} else {
		metrics.RecordFactorLookup(metrics.LookupNoHistory)
	}

	if e.cache != nil {
		e.cache.Set(key, lookup)
	}
	if e.shared != nil {
		if err := e.shared.SetStatistic(ctx, key, lookup); err != nil {
			metrics.RecordSharedCacheError()
		}
	}
	return lookup, nil
}

type poolTotals struct {
	count  int
	hits   int
	stake  float64
	payout float64
}

func (p poolTotals) hitRate() float64 {
	if p.count == 0 {
		return 0
	}
	return float64(p.hits) / float64(p.count) * 100
}

func (p poolTotals) returnRate() float64 {
	if p.stake <= 0 {
		return 0
	}
	return p.payout / p.stake * 100
}

// Aggregate folds observations into a statistic. It returns the neutral
// statistic and false when nothing inside the year window qualifies.
func (e *ReturnRateEngine) Aggregate(observations []*models.FactorObservation) (models.FactorStatistic, bool) {
	var win, place poolTotals
	total := 0

	for _, obs := range observations {
		if obs == nil {
			continue
		}
		w := e.years.Weight(obs.Year)
		if w <= 0 {
			continue
		}
		total++
		e.accumulate(&win, obs, models.BetTypeWin, float64(w))
		e.accumulate(&place, obs, models.BetTypePlace, float64(w))
	}

	if total == 0 {
		return models.NeutralStatistic(), false
	}

	stat := models.NeutralStatistic()
	stat.TotalCount = total
	stat.WinCount = win.count
	stat.PlaceCount = place.count
	stat.WinHits = win.hits
	stat.PlaceHits = place.hits
	if win.count > 0 {
		stat.WinHitRate = win.hitRate()
		stat.CorrectedWinReturn = win.returnRate()
	}
	if place.count > 0 {
		stat.PlaceHitRate = place.hitRate()
		stat.CorrectedPlaceReturn = place.returnRate()
	}
	return stat, true
}

// accumulate adds one observation to a pool. Observations without positive
// odds for the pool carry no stake and are left out of it.
func (e *ReturnRateEngine) accumulate(p *poolTotals, obs *models.FactorObservation, bet models.BetType, weight float64) {
	odds := obs.Odds(bet)
	if odds <= 0 {
		return
	}
	stake := e.targetPayout / odds
	p.count++
	p.stake += stake * weight
	if !obs.Hit(bet) {
		return
	}
	p.hits++

	perUnit := obs.Payout(bet).Div(payoutUnit).InexactFloat64()
	if perUnit <= 0 {
		// result recorded without a payout row: settle at the quoted odds
		perUnit = odds
	}
	p.payout += stake * perUnit * e.odds.Factor(odds, bet) * weight
}

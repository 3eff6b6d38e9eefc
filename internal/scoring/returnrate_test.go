package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/models"
)

func observation(year, finish int, winOdds, winPayout, placeOdds, placePayout float64) *models.FactorObservation {
	return &models.FactorObservation{
		Venue:          "05",
		FactorID:       "jockey",
		ValueKey:       "J001",
		Year:           year,
		FinishPosition: finish,
		WinOdds:        winOdds,
		WinPayout:      decimal.NewFromFloat(winPayout),
		PlaceOdds:      placeOdds,
		PlacePayout:    decimal.NewFromFloat(placePayout),
	}
}

func newTestEngine(t *testing.T, reader ObservationReader, odds OddsCorrection, opts ...EngineOption) *ReturnRateEngine {
	t.Helper()
	years, err := NewLinearYearWeights(2020, 2024)
	require.NoError(t, err)
	engine, err := NewReturnRateEngine(reader, years, odds, opts...)
	require.NoError(t, err)
	return engine
}

func TestAggregateWeightsByRecency(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), OddsCorrection{})

	stat, ok := engine.Aggregate([]*models.FactorObservation{
		observation(2024, 1, 4.0, 400, 1.5, 150),
		observation(2020, 5, 10.0, 0, 3.0, 0),
	})
	require.True(t, ok)

	assert.Equal(t, 2, stat.TotalCount)
	assert.Equal(t, 2, stat.WinCount)
	assert.Equal(t, 2, stat.PlaceCount)
	assert.Equal(t, 1, stat.WinHits)
	assert.Equal(t, 1, stat.PlaceHits)
	assert.InDelta(t, 50.0, stat.WinHitRate, 1e-9)
	assert.InDelta(t, 50.0, stat.PlaceHitRate, 1e-9)

	// win: stakes 2500*5 + 1000*1, payout 2500*4*5
	assert.InDelta(t, 50000.0/13500.0*100, stat.CorrectedWinReturn, 1e-6)
	// place: stakes (10000/1.5)*5 + (10000/3)*1, payout (10000/1.5)*1.5*5
	assert.InDelta(t, 50000.0/(50000.0/1.5+10000.0/3)*100, stat.CorrectedPlaceReturn, 1e-6)
}

func TestAggregateAppliesOddsCorrection(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), DefaultOddsCorrection())

	// one winner among fifteen runs at 15.0 and one placing among four at
	// 4.0 break even before correction
	obs := []*models.FactorObservation{observation(2022, 1, 15.0, 1500, 4.0, 400)}
	for i := 0; i < 3; i++ {
		obs = append(obs, observation(2022, 5, 15.0, 0, 4.0, 0))
	}
	for i := 0; i < 11; i++ {
		obs = append(obs, observation(2022, 9, 15.0, 0, 0, 0))
	}

	stat, ok := engine.Aggregate(obs)
	require.True(t, ok)

	assert.Equal(t, 15, stat.WinCount)
	assert.Equal(t, 4, stat.PlaceCount)
	assert.InDelta(t, 95.0, stat.CorrectedWinReturn, 1e-6)
	assert.InDelta(t, 97.0, stat.CorrectedPlaceReturn, 1e-6)
}

func TestAggregateSingleWinnerReturnsOddsMultiple(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), DefaultOddsCorrection())

	stat, ok := engine.Aggregate([]*models.FactorObservation{
		observation(2022, 1, 15.0, 1500, 4.0, 400),
	})
	require.True(t, ok)

	assert.InDelta(t, 15.0*0.95*100, stat.CorrectedWinReturn, 1e-6)
	assert.InDelta(t, 4.0*0.97*100, stat.CorrectedPlaceReturn, 1e-6)
}

func TestAggregateZeroOddsExcludedFromPool(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), OddsCorrection{})

	stat, ok := engine.Aggregate([]*models.FactorObservation{
		observation(2023, 2, 0, 0, 2.0, 200),
		observation(2023, 7, 8.0, 0, 2.5, 0),
	})
	require.True(t, ok)

	assert.Equal(t, 2, stat.TotalCount)
	assert.Equal(t, 1, stat.WinCount)
	assert.Equal(t, 2, stat.PlaceCount)
	assert.Equal(t, 0.0, stat.WinHitRate)
	assert.Equal(t, 0.0, stat.CorrectedWinReturn)
	assert.InDelta(t, 50.0, stat.PlaceHitRate, 1e-9)
	assert.Equal(t, 1, stat.SampleSize())
}

func TestAggregateMissingPayoutSettlesAtOdds(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), OddsCorrection{})

	stat, ok := engine.Aggregate([]*models.FactorObservation{
		observation(2024, 1, 6.0, 0, 2.0, 0),
	})
	require.True(t, ok)

	assert.InDelta(t, 600.0, stat.CorrectedWinReturn, 1e-9)
	assert.InDelta(t, 200.0, stat.CorrectedPlaceReturn, 1e-9)

	// one winner in six at 6.0 and one placing in two at 2.0 break even
	stat, ok = engine.Aggregate([]*models.FactorObservation{
		observation(2024, 1, 6.0, 0, 2.0, 0),
		observation(2024, 5, 6.0, 0, 2.0, 0),
		observation(2024, 6, 6.0, 0, 0, 0),
		observation(2024, 7, 6.0, 0, 0, 0),
		observation(2024, 8, 6.0, 0, 0, 0),
		observation(2024, 9, 6.0, 0, 0, 0),
	})
	require.True(t, ok)

	assert.InDelta(t, 100.0, stat.CorrectedWinReturn, 1e-9)
	assert.InDelta(t, 100.0, stat.CorrectedPlaceReturn, 1e-9)
}

func TestAggregateOutsideWindowIsNeutral(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), OddsCorrection{})

	stat, ok := engine.Aggregate([]*models.FactorObservation{
		observation(2015, 1, 3.0, 300, 1.2, 120),
		nil,
	})
	assert.False(t, ok)
	assert.Equal(t, models.NeutralStatistic(), stat)
}

func TestLookupNoHistory(t *testing.T) {
	engine := newTestEngine(t, newFakeReader(), DefaultOddsCorrection())

	lookup, err := engine.Lookup(context.Background(), "05", "jockey", factor.Single("J404"))
	require.NoError(t, err)
	assert.False(t, lookup.HasHistory)
	assert.Equal(t, models.NeutralStatistic(), lookup.Statistic)
}

func TestLookupQueriesWindow(t *testing.T) {
	reader := newFakeReader()
	reader.add("jockey_trainer", "J001|T042", observation(2024, 1, 4.0, 420, 1.6, 160))
	engine := newTestEngine(t, reader, DefaultOddsCorrection())

	lookup, err := engine.Lookup(context.Background(), "05", "jockey_trainer", factor.Pair("J001", "T042"))
	require.NoError(t, err)
	assert.True(t, lookup.HasHistory)
	require.Len(t, reader.queries, 1)
	assert.Equal(t, models.ObservationQuery{
		Venue:    "05",
		FactorID: "jockey_trainer",
		ValueKey: "J001|T042",
		FromYear: 2020,
		ToYear:   2024,
	}, reader.queries[0])
}

func TestLookupStoreFailure(t *testing.T) {
	reader := newFakeReader()
	reader.err = errStoreDown
	engine := newTestEngine(t, reader, DefaultOddsCorrection())

	_, err := engine.Lookup(context.Background(), "05", "jockey", factor.Single("J001"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataStoreUnavailable))
	assert.True(t, errors.Is(err, errStoreDown))
}

func TestLookupInvalidValue(t *testing.T) {
	reader := newFakeReader()
	engine := newTestEngine(t, reader, DefaultOddsCorrection())

	_, err := engine.Lookup(context.Background(), "05", "jockey", factor.Single(" "))
	assert.True(t, errors.Is(err, models.ErrInvalidFactorValue))
	assert.Equal(t, 0, reader.queryCount())
}

func TestLookupUsesCache(t *testing.T) {
	reader := newFakeReader()
	reader.add("trainer", "T042", observation(2023, 3, 9.0, 0, 2.8, 280))
	cache := NewStatisticCache(time.Minute, 100)
	engine := newTestEngine(t, reader, DefaultOddsCorrection(), WithStatisticCache(cache))

	first, err := engine.Lookup(context.Background(), "05", "trainer", factor.Single("T042"))
	require.NoError(t, err)
	second, err := engine.Lookup(context.Background(), "05", "trainer", factor.Single("T042"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reader.queryCount())
	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestLookupFailureIsNotCached(t *testing.T) {
	reader := newFakeReader()
	reader.err = errStoreDown
	cache := NewStatisticCache(time.Minute, 100)
	engine := newTestEngine(t, reader, DefaultOddsCorrection(), WithStatisticCache(cache))

	_, err := engine.Lookup(context.Background(), "05", "trainer", factor.Single("T042"))
	require.Error(t, err)
	assert.Equal(t, 0, cache.ItemCount())
}

func TestLookupSharedStoreHitSkipsReader(t *testing.T) {
	reader := newFakeReader()
	shared := newFakeSharedStore()
	stat := models.FactorStatistic{WinCount: 50, PlaceCount: 50, WinHitRate: 20, PlaceHitRate: 40, CorrectedWinReturn: 95, CorrectedPlaceReturn: 90}
	shared.entries[statisticKey("05", "trainer", "T042", 2020, 2024)] = StatisticLookup{Statistic: stat, HasHistory: true}
	cache := NewStatisticCache(time.Minute, 100)
	engine := newTestEngine(t, reader, DefaultOddsCorrection(), WithStatisticCache(cache), WithSharedStore(shared))

	lookup, err := engine.Lookup(context.Background(), "05", "trainer", factor.Single("T042"))
	require.NoError(t, err)
	assert.True(t, lookup.HasHistory)
	assert.Equal(t, stat, lookup.Statistic)
	assert.Equal(t, 0, reader.queryCount())
	assert.Equal(t, 1, cache.ItemCount())
}

func TestLookupSharedStoreMissWritesBack(t *testing.T) {
	reader := newFakeReader()
	reader.add("trainer", "T042", observation(2023, 1, 4.0, 400, 1.6, 160))
	shared := newFakeSharedStore()
	engine := newTestEngine(t, reader, DefaultOddsCorrection(), WithSharedStore(shared))

	lookup, err := engine.Lookup(context.Background(), "05", "trainer", factor.Single("T042"))
	require.NoError(t, err)
	assert.Equal(t, 1, reader.queryCount())

	stored, ok := shared.entries[statisticKey("05", "trainer", "T042", 2020, 2024)]
	require.True(t, ok)
	assert.Equal(t, lookup, stored)
}

func TestLookupSharedStoreErrorFallsBackToReader(t *testing.T) {
	reader := newFakeReader()
	reader.add("trainer", "T042", observation(2023, 2, 6.0, 0, 2.0, 200))
	shared := newFakeSharedStore()
	shared.err = errors.New("redis timeout")
	engine := newTestEngine(t, reader, DefaultOddsCorrection(), WithSharedStore(shared))

	lookup, err := engine.Lookup(context.Background(), "05", "trainer", factor.Single("T042"))
	require.NoError(t, err)
	assert.True(t, lookup.HasHistory)
	assert.Equal(t, 1, reader.queryCount())
}

func TestWithTargetPayoutDoesNotChangeRates(t *testing.T) {
	obs := []*models.FactorObservation{
		observation(2024, 1, 4.0, 400, 1.5, 150),
		observation(2021, 4, 12.0, 0, 3.5, 0),
	}
	base := newTestEngine(t, newFakeReader(), DefaultOddsCorrection())
	scaled := newTestEngine(t, newFakeReader(), DefaultOddsCorrection(), WithTargetPayout(250))

	a, _ := base.Aggregate(obs)
	b, _ := scaled.Aggregate(obs)
	assert.InDelta(t, a.CorrectedWinReturn, b.CorrectedWinReturn, 1e-9)
	assert.InDelta(t, a.CorrectedPlaceReturn, b.CorrectedPlaceReturn, 1e-9)
}

func TestNewReturnRateEngineValidation(t *testing.T) {
	years, _ := NewLinearYearWeights(2020, 2024)

	_, err := NewReturnRateEngine(nil, years, DefaultOddsCorrection())
	assert.Error(t, err)

	_, err = NewReturnRateEngine(newFakeReader(), YearWeights{}, DefaultOddsCorrection())
	assert.Error(t, err)
}

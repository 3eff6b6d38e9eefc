package scoring

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/models"
)

var errStoreDown = errors.New("connection refused")

// fakeReader serves observations keyed by factor id and value key
type fakeReader struct {
	mu           sync.Mutex
	observations map[string][]*models.FactorObservation
	err          error
	queries      []models.ObservationQuery
}

func newFakeReader() *fakeReader {
	return &fakeReader{observations: make(map[string][]*models.FactorObservation)}
}

func (f *fakeReader) add(factorID, valueKey string, obs ...*models.FactorObservation) {
	key := factorID + "=" + valueKey
	f.observations[key] = append(f.observations[key], obs...)
}

func (f *fakeReader) FindObservations(_ context.Context, q models.ObservationQuery) ([]*models.FactorObservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.observations[q.FactorID+"="+q.ValueKey], nil
}

func (f *fakeReader) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// fakeSource returns fixed statistics per factor value and can fail per factor
type fakeSource struct {
	mu      sync.Mutex
	stats   map[string]models.FactorStatistic
	failing map[string]bool
	lookups map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		stats:   make(map[string]models.FactorStatistic),
		failing: make(map[string]bool),
		lookups: make(map[string]int),
	}
}

func (f *fakeSource) set(factorID, valueKey string, stat models.FactorStatistic) {
	f.stats[factorID+"="+valueKey] = stat
}

func (f *fakeSource) Lookup(_ context.Context, _ string, factorID string, value factor.Value) (StatisticLookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups[factorID]++
	if f.failing[factorID] {
		return StatisticLookup{}, errors.Join(models.ErrDataStoreUnavailable, errStoreDown)
	}
	stat, ok := f.stats[factorID+"="+value.Key()]
	if !ok {
		return StatisticLookup{Statistic: models.NeutralStatistic()}, nil
	}
	return StatisticLookup{Statistic: stat, HasHistory: true}, nil
}

func (f *fakeSource) lookupCount(factorID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups[factorID]
}

// fakeSharedStore is an in-memory SharedStatisticStore
type fakeSharedStore struct {
	mu      sync.Mutex
	entries map[string]StatisticLookup
	err     error
}

func newFakeSharedStore() *fakeSharedStore {
	return &fakeSharedStore{entries: make(map[string]StatisticLookup)}
}

func (f *fakeSharedStore) GetStatistic(_ context.Context, key string) (StatisticLookup, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return StatisticLookup{}, false, f.err
	}
	lookup, ok := f.entries[key]
	return lookup, ok, nil
}

func (f *fakeSharedStore) SetStatistic(_ context.Context, key string, lookup StatisticLookup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries[key] = lookup
	return nil
}

package scoring

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/race-scorer/internal/metrics"
)

// StatisticCache keeps factor statistics in memory for the length of a batch.
// Jockeys and trainers recur across races, so most lookups after the first
// few races are served from here.
type StatisticCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewStatisticCache creates a cache with the given entry ttl and soft size cap
func NewStatisticCache(ttl time.Duration, maxSize int) *StatisticCache {
	return &StatisticCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func statisticKey(venue, factorID, valueKey string, first, last int) string {
	return fmt.Sprintf("%s:%s:%d-%d:%s", venue, factorID, first, last, valueKey)
}

// Get returns a cached lookup
func (sc *StatisticCache) Get(key string) (StatisticLookup, bool) {
	result, found := sc.cache.Get(key)

	sc.mu.Lock()
	if found {
		sc.hitCount++
	} else {
		sc.missCount++
	}
	sc.mu.Unlock()
	sc.updateMetrics()

	if !found {
		return StatisticLookup{}, false
	}
	lookup, ok := result.(StatisticLookup)
	return lookup, ok
}

// Set stores a lookup
func (sc *StatisticCache) Set(key string, lookup StatisticLookup) {
	if sc.maxSize > 0 && sc.cache.ItemCount() >= sc.maxSize {
		sc.cache.DeleteExpired()
		if sc.cache.ItemCount() >= sc.maxSize {
			return
		}
	}
	sc.cache.Set(key, lookup, sc.ttl)
}

// Clear flushes the cache and resets its counters
func (sc *StatisticCache) Clear() {
	sc.cache.Flush()
	sc.mu.Lock()
	sc.hitCount = 0
	sc.missCount = 0
	sc.mu.Unlock()
}

// Stats returns cache statistics
func (sc *StatisticCache) Stats() (hits, misses uint64, ratio float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	hits = sc.hitCount
	misses = sc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached statistics
func (sc *StatisticCache) ItemCount() int {
	return sc.cache.ItemCount()
}

func (sc *StatisticCache) updateMetrics() {
	_, _, ratio := sc.Stats()
	metrics.UpdateStatisticCache(ratio, sc.cache.ItemCount())
}

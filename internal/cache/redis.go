// Package cache provides the Redis-backed statistic store shared by every
// scorer process pointed at the same instance.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/race-scorer/internal/scoring"
)

// DefaultPrefix namespaces statistic keys
const DefaultPrefix = "race-scorer:stat:"

// RedisStatisticStore stores factor statistics as JSON strings
type RedisStatisticStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL and connects
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStatisticStore creates a store. A zero ttl keeps entries forever.
func NewRedisStatisticStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStatisticStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStatisticStore{client: client, prefix: prefix, ttl: ttl}
}

// GetStatistic returns a stored lookup; a missing key is not an error
func (r *RedisStatisticStore) GetStatistic(ctx context.Context, key string) (scoring.StatisticLookup, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return scoring.StatisticLookup{}, false, nil
	}
	if err != nil {
		return scoring.StatisticLookup{}, false, fmt.Errorf("failed to read statistic %s: %w", key, err)
	}

	var lookup scoring.StatisticLookup
	if err := json.Unmarshal(raw, &lookup); err != nil {
		return scoring.StatisticLookup{}, false, fmt.Errorf("failed to decode statistic %s: %w", key, err)
	}
	return lookup, true, nil
}

// SetStatistic stores a lookup
func (r *RedisStatisticStore) SetStatistic(ctx context.Context, key string, lookup scoring.StatisticLookup) error {
	raw, err := json.Marshal(lookup)
	if err != nil {
		return fmt.Errorf("failed to encode statistic %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write statistic %s: %w", key, err)
	}
	return nil
}

package store

import (
	"AdminAPI/internal/logger"
	"AdminAPI/internal/query"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "documents:"

// Cached puts an in-process cache and an optional Redis cache in front of another
// Store. Both levels expire after ttl; a Redis failure degrades to the next store.
type Cached struct {
	next  Store
	rdb   *redis.Client
	ttl   time.Duration
	local *localCache
	now   func() time.Time
}

func NewCached(next Store, rdb *redis.Client, ttl time.Duration, localMaxBytes int64) *Cached {
	return &Cached{
		next:  next,
		rdb:   rdb,
		ttl:   ttl,
		local: newLocalCache(ttl, localMaxBytes),
		now:   time.Now,
	}
}

func cacheKey(tenant, collection string) string {
	return cacheKeyPrefix + tenant + ":" + collection
}

func (c *Cached) Fetch(ctx context.Context, tenant, collection string) ([]query.Record, error) {
	key := cacheKey(tenant, collection)
	if records, ok := c.local.get(key, c.now()); ok {
		return records, nil
	}

	if c.rdb != nil {
		payload, err := c.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			records, decErr := DecodeRecords(payload)
			if decErr == nil {
				c.local.set(key, records, int64(len(payload)), c.now())
				return records, nil
			}
			logger.Warn("redis_cache_invalid_payload", map[string]any{"key": key, "error": decErr.Error()})
		case !errors.Is(err, redis.Nil):
			logger.Warn("redis_cache_get_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}

	records, err := c.next.Fetch(ctx, tenant, collection)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []query.Record{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode cache payload: %w", err)
	}
	c.local.set(key, records, int64(len(payload)), c.now())
	if c.rdb != nil && c.ttl > 0 {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.Warn("redis_cache_set_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
	return records, nil
}

// Evict removes the cached records of one collection from Redis. Process-local
// copies expire with their TTL.
func Evict(ctx context.Context, rdb *redis.Client, tenant, collection string) error {
	key := cacheKey(tenant, collection)
	if err := rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Flush removes every cached collection from Redis.
func Flush(ctx context.Context, rdb *redis.Client) error {
	iter := rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	return nil
}

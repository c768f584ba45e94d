package store

import (
	"AdminAPI/internal/query"
	"fmt"
	"runtime"
	"sync"
	"time"

	"AdminAPI/internal/logger"
)

const localCacheSweepFreq = time.Minute

type localCacheEntry struct {
	records   []query.Record
	sizeBytes int64
	expiresAt time.Time
}

// localCache is the in-process level of Cached: entries expire after ttl and the
// total payload size stays under maxBytes when it is set.
type localCache struct {
	mu         sync.Mutex
	items      map[string]*localCacheEntry
	ttl        time.Duration
	lastSweep  time.Time
	totalBytes int64
	maxBytes   int64
}

func newLocalCache(ttl time.Duration, maxBytes int64) *localCache {
	return &localCache{
		items:    make(map[string]*localCacheEntry),
		ttl:      ttl,
		maxBytes: maxBytes,
	}
}

func (c *localCache) get(key string, now time.Time) ([]query.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeSweepLocked(now)
	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !now.Before(entry.expiresAt) {
		c.deleteLocked(key, entry)
		return nil, false
	}
	return entry.records, true
}

func (c *localCache) set(key string, records []query.Record, sizeBytes int64, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("local_cache_store_failed", map[string]any{
				"error": fmt.Sprintf("%v", r),
			})
			logMemoryPressure()
		}
	}()
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeSweepLocked(now)

	if c.maxBytes > 0 && sizeBytes > c.maxBytes {
		logger.Warn("local_cache_item_too_large", map[string]any{
			"key":        key,
			"item_bytes": sizeBytes,
			"max_bytes":  c.maxBytes,
		})
		return
	}

	if existing, ok := c.items[key]; ok {
		c.deleteLocked(key, existing)
	}
	if c.maxBytes > 0 && c.totalBytes+sizeBytes > c.maxBytes {
		logger.Warn("local_cache_memory_limit_exceeded", map[string]any{
			"key":         key,
			"item_bytes":  sizeBytes,
			"total_bytes": c.totalBytes,
			"max_bytes":   c.maxBytes,
		})
		logMemoryPressure()
		return
	}

	c.items[key] = &localCacheEntry{
		records:   records,
		sizeBytes: sizeBytes,
		expiresAt: now.Add(c.ttl),
	}
	c.totalBytes += sizeBytes
}

func (c *localCache) deleteLocked(key string, entry *localCacheEntry) {
	delete(c.items, key)
	c.totalBytes -= entry.sizeBytes
}

func (c *localCache) maybeSweepLocked(now time.Time) {
	if !c.lastSweep.IsZero() && now.Sub(c.lastSweep) < localCacheSweepFreq {
		return
	}
	for key, entry := range c.items {
		if !now.Before(entry.expiresAt) {
			c.deleteLocked(key, entry)
		}
	}
	c.lastSweep = now
}

func logMemoryPressure() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	logger.Error("local_cache_memory_pressure", map[string]any{
		"alloc_bytes": stats.Alloc,
		"heap_inuse":  stats.HeapInuse,
	})
}

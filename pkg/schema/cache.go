package schema

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// cacheEntry holds a cached snapshot with its expiry and insertion time.
type cacheEntry struct {
	snapshot   *IndicatorSnapshot
	expiresAt  time.Time
	insertedAt time.Time
}

// SnapshotCache is a thread-safe TTL cache of indicator snapshots. The
// registry is reference data that changes rarely, so scoring reads go through
// the cache instead of hitting the store on every report. When the cache
// reaches maxSize, the oldest entry by insertion time is evicted. Expired
// entries are lazily evicted on Get.
type SnapshotCache struct {
	mu      sync.RWMutex
	items   map[string]*cacheEntry
	maxSize int
	ttl     time.Duration
}

// NewSnapshotCache creates a cache with the given maximum size and TTL.
func NewSnapshotCache(maxSize int, ttl time.Duration) *SnapshotCache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SnapshotCache{
		items:   make(map[string]*cacheEntry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// SnapshotCacheFromEnv builds a cache from SCORECARD_SCHEMA_CACHE_SIZE and
// SCORECARD_SCHEMA_CACHE_TTL_SECONDS, with defaults of 32 entries and 5m.
func SnapshotCacheFromEnv() *SnapshotCache {
	size := 32
	ttl := 5 * time.Minute
	if v := os.Getenv("SCORECARD_SCHEMA_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	if v := os.Getenv("SCORECARD_SCHEMA_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}
	return NewSnapshotCache(size, ttl)
}

// Get returns the cached snapshot for an indicator, or (nil, false) if the
// entry is missing or expired.
func (c *SnapshotCache) Get(indicatorID string) (*IndicatorSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[indicatorID]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, indicatorID)
		return nil, false
	}
	return e.snapshot, true
}

// Set stores a snapshot. At capacity, the oldest entry is evicted first.
func (c *SnapshotCache) Set(indicatorID string, snapshot *IndicatorSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, exists := c.items[indicatorID]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[indicatorID] = &cacheEntry{
		snapshot:   snapshot,
		expiresAt:  now.Add(c.ttl),
		insertedAt: now,
	}
}

// Invalidate removes an indicator's snapshot, forcing the next read to hit
// the store. Used when registry data is reloaded.
func (c *SnapshotCache) Invalidate(indicatorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, indicatorID)
}

// Len returns the number of cached entries, including not-yet-evicted
// expired ones.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the earliest insertion time.
// Caller must hold the lock.
func (c *SnapshotCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, e := range c.items {
		if first || e.insertedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

package schema

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(indicatorID string) *IndicatorSnapshot {
	snap := &IndicatorSnapshot{Indicator: Indicator{IndicatorID: indicatorID}}
	snap.buildIndexes()
	return snap
}

func TestSnapshotCache_SetGet(t *testing.T) {
	cache := NewSnapshotCache(4, time.Minute)

	cache.Set("IND01", testSnapshot("IND01"))

	got, ok := cache.Get("IND01")
	require.True(t, ok)
	assert.Equal(t, "IND01", got.Indicator.IndicatorID)

	_, ok = cache.Get("IND02")
	assert.False(t, ok)
}

func TestSnapshotCache_Expiry(t *testing.T) {
	cache := NewSnapshotCache(4, 10*time.Millisecond)

	cache.Set("IND01", testSnapshot("IND01"))
	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get("IND01")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestSnapshotCache_EvictsOldest(t *testing.T) {
	cache := NewSnapshotCache(3, time.Minute)

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("IND%02d", i)
		cache.Set(id, testSnapshot(id))
		time.Sleep(time.Millisecond)
	}
	cache.Set("IND04", testSnapshot("IND04"))

	_, ok := cache.Get("IND01")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = cache.Get("IND04")
	assert.True(t, ok)
	assert.Equal(t, 3, cache.Len())
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	cache := NewSnapshotCache(4, time.Minute)

	cache.Set("IND01", testSnapshot("IND01"))
	cache.Invalidate("IND01")

	_, ok := cache.Get("IND01")
	assert.False(t, ok)
}

func TestSnapshotCacheFromEnv(t *testing.T) {
	t.Setenv("SCORECARD_SCHEMA_CACHE_SIZE", "2")
	t.Setenv("SCORECARD_SCHEMA_CACHE_TTL_SECONDS", "1")

	cache := SnapshotCacheFromEnv()
	assert.Equal(t, 2, cache.maxSize)
	assert.Equal(t, time.Second, cache.ttl)
}

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(1)
	defer mc.Stop()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "feed:abc", []byte("<rss/>"), time.Hour))

	value, found := mc.Get(ctx, "feed:abc")
	require.True(t, found)
	assert.Equal(t, []byte("<rss/>"), value)

	_, found = mc.Get(ctx, "feed:missing")
	assert.False(t, found)
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache(1)
	defer mc.Stop()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "key", []byte("value"), 50*time.Millisecond))

	_, found := mc.Get(ctx, "key")
	require.True(t, found)

	time.Sleep(100 * time.Millisecond)

	_, found = mc.Get(ctx, "key")
	assert.False(t, found, "expected expired entry to be gone")
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	mc := NewMemoryCache(1)
	defer mc.Stop()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), time.Hour))

	require.NoError(t, mc.Delete(ctx, "a"))
	_, found := mc.Get(ctx, "a")
	assert.False(t, found)

	require.NoError(t, mc.Clear(ctx))
	_, found = mc.Get(ctx, "b")
	assert.False(t, found)
	assert.Equal(t, int64(0), mc.GetStats().Size)
}

func TestMemoryCacheEvictsWhenFull(t *testing.T) {
	// 1MB cap with ~200KB entries forces eviction after a handful of sets.
	mc := NewMemoryCache(1)
	defer mc.Stop()

	ctx := context.Background()
	payload := make([]byte, 200*1024)
	for i := 0; i < 10; i++ {
		require.NoError(t, mc.Set(ctx, fmt.Sprintf("key-%d", i), payload, time.Hour))
	}

	stats := mc.GetStats()
	assert.LessOrEqual(t, stats.Size, stats.MaxSize)
	assert.Greater(t, stats.Evictions, int64(0))
}

func TestMemoryCacheStatsUnderConcurrentAccess(t *testing.T) {
	mc := NewMemoryCache(1)
	defer mc.Stop()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n)
			for j := 0; j < 100; j++ {
				_ = mc.Set(ctx, key, []byte("value"), time.Hour)
				mc.Get(ctx, key)
				mc.GetStats()
			}
		}(i)
	}
	wg.Wait()

	stats := mc.GetStats()
	assert.Equal(t, int64(800), stats.Sets)
	assert.Equal(t, int64(800), stats.Hits)
}

func TestMemoryCacheStats(t *testing.T) {
	mc := NewMemoryCache(1)
	defer mc.Stop()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "key", []byte("value"), time.Hour))

	mc.Get(ctx, "key")
	mc.Get(ctx, "nope")

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

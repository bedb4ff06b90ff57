package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache implements an in-memory cache with a byte-size cap. Synthesized
// feeds are small (tens of KB), so even a modest cap holds thousands of them.
type MemoryCache struct {
	mu          sync.RWMutex
	items       map[string]*cacheItem
	maxSize     int64
	currentSize int64
	stats       Stats
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

type cacheItem struct {
	value  []byte
	expiry time.Time
	size   int64
}

// NewMemoryCache creates a new in-memory cache capped at maxSizeMB megabytes
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	mc := &MemoryCache{
		items:   make(map[string]*cacheItem),
		maxSize: maxSizeMB * 1024 * 1024,
		stopCh:  make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.cleanupExpired()

	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, exists := mc.items[key]
	mc.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	if time.Now().After(item.expiry) {
		_ = mc.Delete(ctx, key)
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	atomic.AddInt64(&mc.stats.Hits, 1)
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}

	size := int64(len(key) + len(value))
	mc.makeRoom(size)

	item := &cacheItem{
		value:  value,
		expiry: time.Now().Add(ttl),
		size:   size,
	}

	mc.mu.Lock()
	if oldItem, exists := mc.items[key]; exists {
		atomic.AddInt64(&mc.currentSize, -oldItem.size)
	}
	mc.items[key] = item
	atomic.AddInt64(&mc.currentSize, size)
	mc.mu.Unlock()

	atomic.AddInt64(&mc.stats.Sets, 1)
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	if item, exists := mc.items[key]; exists {
		delete(mc.items, key)
		atomic.AddInt64(&mc.currentSize, -item.size)
	}
	mc.mu.Unlock()
	return nil
}

// Clear removes all values from the cache
func (mc *MemoryCache) Clear(ctx context.Context) error {
	mc.mu.Lock()
	mc.items = make(map[string]*cacheItem)
	atomic.StoreInt64(&mc.currentSize, 0)
	mc.mu.Unlock()
	return nil
}

// GetStats returns cache statistics. Counters are loaded atomically; they
// are updated concurrently by the request and cleanup goroutines.
func (mc *MemoryCache) GetStats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&mc.stats.Hits),
		Misses:    atomic.LoadInt64(&mc.stats.Misses),
		Sets:      atomic.LoadInt64(&mc.stats.Sets),
		Evictions: atomic.LoadInt64(&mc.stats.Evictions),
		Size:      atomic.LoadInt64(&mc.currentSize),
		MaxSize:   mc.maxSize,
	}
}

// Stop gracefully shuts down the cache
func (mc *MemoryCache) Stop() {
	close(mc.stopCh)
	mc.wg.Wait()
}

// cleanupExpired removes expired items periodically
func (mc *MemoryCache) cleanupExpired() {
	defer mc.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.removeExpired()
		case <-mc.stopCh:
			return
		}
	}
}

// removeExpired removes all expired items
func (mc *MemoryCache) removeExpired() {
	now := time.Now()
	mc.mu.Lock()
	for key, item := range mc.items {
		if now.After(item.expiry) {
			delete(mc.items, key)
			atomic.AddInt64(&mc.currentSize, -item.size)
			atomic.AddInt64(&mc.stats.Evictions, 1)
		}
	}
	mc.mu.Unlock()
}

// makeRoom evicts entries until sizeNeeded fits under the cap
func (mc *MemoryCache) makeRoom(sizeNeeded int64) {
	if mc.maxSize <= 0 || atomic.LoadInt64(&mc.currentSize)+sizeNeeded <= mc.maxSize {
		return
	}

	mc.removeExpired()

	if atomic.LoadInt64(&mc.currentSize)+sizeNeeded > mc.maxSize {
		mc.mu.Lock()
		targetSize := mc.maxSize - sizeNeeded
		for key, item := range mc.items {
			if atomic.LoadInt64(&mc.currentSize) <= targetSize {
				break
			}
			delete(mc.items, key)
			atomic.AddInt64(&mc.currentSize, -item.size)
			atomic.AddInt64(&mc.stats.Evictions, 1)
		}
		mc.mu.Unlock()
	}
}

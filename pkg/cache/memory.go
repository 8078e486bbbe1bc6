package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Config controls expiry and capacity. Zero values pick the defaults.
type Config struct {
	TTL     time.Duration
	MaxSize int
}

// Stats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type Stats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// Memory is an in-memory TTL cache safe for concurrent use
type Memory[K comparable, V any] struct {
	cache   map[K]*cachedRecord[V]
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

type cachedRecord[V any] struct {
	value    V
	cachedAt time.Time
}

// NewMemory creates a new in-memory cache
func NewMemory[K comparable, V any](c Config) *Memory[K, V] {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &Memory[K, V]{
		cache:   make(map[K]*cachedRecord[V]),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
		now:     time.Now,
	}
}

// Get returns the value for key if present and not expired
func (c *Memory[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	record, exists := c.cache[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return zero, false
	}

	if c.now().Sub(record.cachedAt) > c.ttl {
		// expired
		atomic.AddInt64(&c.misses, 1)
		c.expire(key, record)
		return zero, false
	}

	atomic.AddInt64(&c.hits, 1)
	return record.value, true
}

// expire drops key only if it still holds the expired record
func (c *Memory[K, V]) expire(key K, record *cachedRecord[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.cache[key]; ok && current == record {
		delete(c.cache, key)
		atomic.AddInt64(&c.evictions, 1)
	}
}

// Set stores value under key, refreshing its TTL
func (c *Memory[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if _, exists := c.cache[key]; !exists && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.cache[key] = &cachedRecord[V]{
		value:    value,
		cachedAt: c.now(),
	}

	atomic.AddInt64(&c.sets, 1)
}

// Delete removes key from the cache
func (c *Memory[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[key]; existed {
		delete(c.cache, key)
		atomic.AddInt64(&c.deletes, 1)
	}
}

// Clear removes all entries
func (c *Memory[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[K]*cachedRecord[V])
}

// Len returns the number of cached entries, expired ones included
func (c *Memory[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns cache statistics
func (c *Memory[K, V]) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}

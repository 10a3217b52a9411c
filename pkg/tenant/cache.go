package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache stores directory lookups keyed by tenant identifier.
type Cache interface {
	Get(ctx context.Context, key string) (*Info, bool)
	Set(ctx context.Context, key string, info *Info, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// DefaultCacheSize caps the in-memory cache.
const DefaultCacheSize = 1000

type memoryCache struct {
	mu      sync.Mutex
	items   map[string]memoryItem
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

type memoryItem struct {
	info      *Info
	expiresAt time.Time
}

// NewMemoryCache returns an in-memory cache with TTL expiry and a background
// sweep. When full it evicts the entry closest to expiry.
func NewMemoryCache(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &memoryCache{
		items:   make(map[string]memoryItem),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) (*Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return item.info, true
}

func (c *memoryCache) Set(ctx context.Context, key string, info *Info, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictSoonest()
	}
	c.items[key] = memoryItem{info: info, expiresAt: time.Now().Add(ttl)}
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// evictSoonest removes the entry expiring first. Caller holds the lock.
func (c *memoryCache) evictSoonest() {
	var victim string
	var soonest time.Time
	for key, item := range c.items {
		if victim == "" || item.expiresAt.Before(soonest) {
			victim = key
			soonest = item.expiresAt
		}
	}
	if victim != "" {
		delete(c.items, victim)
	}
}

func (c *memoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noopCache disables directory caching, mainly for tests.
type noopCache struct{}

// NewNoopCache returns a cache that never stores anything.
func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(ctx context.Context, key string) (*Info, bool)                   { return nil, false }
func (noopCache) Set(ctx context.Context, key string, info *Info, ttl time.Duration) {}
func (noopCache) Delete(ctx context.Context, key string)                              {}
func (noopCache) Close() error                                                        { return nil }

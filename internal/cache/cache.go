// Package cache is the short-TTL in-process cache sitting in front of
// the bookmark store for hot reads.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/metrics"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Keys   int    `json:"keys"`
}

// FlushHook is invoked after an explicit flush so that downstream
// caches (e.g. a separate page-render cache) are invalidated too;
// clearing memory alone would leave them serving stale pages.
type FlushHook func(ctx context.Context) error

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL map with hit/miss accounting. Successful external
// lookups are cached longer than confirmed failures, so transient
// upstream errors get retried sooner than stable results are
// re-fetched.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]item
	hits       uint64
	misses     uint64
	successTTL time.Duration
	failureTTL time.Duration
	hooks      []FlushHook
	logger     logger.Logger
	now        func() time.Time
}

func New(successTTL, failureTTL time.Duration, log logger.Logger) *Cache {
	return &Cache{
		items:      make(map[string]item),
		successTTL: successTTL,
		failureTTL: failureTTL,
		logger:     log,
		now:        time.Now,
	}
}

// OnFlush registers a downstream invalidation hook.
func (c *Cache) OnFlush(hook FlushHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Get returns the cached value for key, expiring lazily.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if ok && c.now().Before(it.expiresAt) {
		c.hits++
		metrics.RecordCacheHit()
		return it.value, true
	}
	if ok {
		delete(c.items, key)
	}
	c.misses++
	metrics.RecordCacheMiss()
	return nil, false
}

// Set stores value under key with an explicit TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{value: value, expiresAt: c.now().Add(ttl)}
}

// SetSuccess caches a confirmed result with the long TTL.
func (c *Cache) SetSuccess(key string, value any) {
	c.Set(key, value, c.successTTL)
}

// SetFailure caches a confirmed failure with the short TTL.
func (c *Cache) SetFailure(key string, value any) {
	c.Set(key, value, c.failureTTL)
}

// Del removes a single key.
func (c *Cache) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// FlushAll clears every entry and signals downstream caches. Hook
// failures are logged but do not abort the flush; the memory cache is
// already cleared at that point.
func (c *Cache) FlushAll(ctx context.Context) {
	c.mu.Lock()
	c.items = make(map[string]item)
	hooks := make([]FlushHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			c.logger.Warn("downstream cache invalidation failed",
				logger.Error(err))
		}
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses, Keys: len(c.items)}
}

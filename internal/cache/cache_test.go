package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkshelf/shelf/internal/logger"
)

func newTestCache() *Cache {
	return New(time.Hour, time.Minute, logger.Nop())
}

func TestGetSet(t *testing.T) {
	c := newTestCache()

	if _, found := c.Get("missing"); found {
		t.Error("found a key that was never set")
	}

	c.SetSuccess("page:1", "payload")
	v, found := c.Get("page:1")
	if !found || v != "payload" {
		t.Errorf("Get = %v, %v; want payload, true", v, found)
	}
}

func TestLazyExpiry(t *testing.T) {
	c := newTestCache()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	c.SetSuccess("long", "a")  // 1h TTL
	c.SetFailure("short", "b") // 1m TTL

	c.now = func() time.Time { return base.Add(5 * time.Minute) }

	if _, found := c.Get("long"); !found {
		t.Error("success entry expired before its TTL")
	}
	if _, found := c.Get("short"); found {
		t.Error("failure entry survived past its TTL")
	}

	// Expired entries are removed on read.
	if stats := c.Stats(); stats.Keys != 1 {
		t.Errorf("Keys = %d after lazy expiry, want 1", stats.Keys)
	}
}

func TestDel(t *testing.T) {
	c := newTestCache()
	c.SetSuccess("k", "v")
	c.Del("k")
	if _, found := c.Get("k"); found {
		t.Error("deleted key still readable")
	}
}

func TestFlushAllRunsHooks(t *testing.T) {
	c := newTestCache()

	calls := 0
	c.OnFlush(func(context.Context) error {
		calls++
		return nil
	})
	c.OnFlush(func(context.Context) error {
		calls++
		return errors.New("downstream unavailable")
	})

	c.SetSuccess("a", 1)
	c.SetSuccess("b", 2)
	c.FlushAll(context.Background())

	if calls != 2 {
		t.Errorf("hooks ran %d times, want 2 (failures must not short-circuit)", calls)
	}
	if stats := c.Stats(); stats.Keys != 0 {
		t.Errorf("Keys = %d after flush, want 0", stats.Keys)
	}
}

func TestStatsCounters(t *testing.T) {
	c := newTestCache()

	c.SetSuccess("k", "v")
	c.Get("k")      // hit
	c.Get("k")      // hit
	c.Get("other")  // miss
	c.Get("absent") // miss

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 || stats.Keys != 1 {
		t.Errorf("Stats = %+v, want hits=2 misses=2 keys=1", stats)
	}
}

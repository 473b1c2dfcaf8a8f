package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linkshelf/shelf/internal/cache"
	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/lock"
	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/objstore"
	"github.com/linkshelf/shelf/internal/refresh"
	"github.com/linkshelf/shelf/internal/store"
)

func newCountingOrchestrator(calls *atomic.Int64) *refresh.Orchestrator {
	backend := objstore.NewMemory()
	keys := store.NewKeys("test")
	st := store.New(backend, keys, 24, logger.Nop())
	memCache := cache.New(time.Hour, time.Minute, logger.Nop())
	lk := lock.New(backend, keys.Lock(), 2*time.Minute, logger.Nop())

	fetch := func(context.Context) ([]domain.Bookmark, error) {
		calls.Add(1)
		return []domain.Bookmark{{
			ID:             "a",
			URL:            "https://example.org/",
			DateBookmarked: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}}, nil
	}
	return refresh.New(lk, st, fetch, memCache, 0, logger.Nop())
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestStartRunsImmediately(t *testing.T) {
	var calls atomic.Int64
	trigger := make(chan struct{}, 1)
	r := NewRefresher(newCountingOrchestrator(&calls), logger.Nop(), time.Hour, 0, trigger)

	r.Start(context.Background())
	defer r.Stop()

	if calls.Load() != 1 {
		t.Errorf("initial refresh ran %d times, want 1", calls.Load())
	}
}

func TestManualTriggerRunsRefresh(t *testing.T) {
	var calls atomic.Int64
	trigger := make(chan struct{}, 1)
	r := NewRefresher(newCountingOrchestrator(&calls), logger.Nop(), time.Hour, 0, trigger)

	r.Start(context.Background())
	defer r.Stop()

	trigger <- struct{}{}
	waitFor(t, time.Second, func() bool { return calls.Load() >= 2 })
}

func TestStopHaltsLoop(t *testing.T) {
	var calls atomic.Int64
	trigger := make(chan struct{}, 1)
	r := NewRefresher(newCountingOrchestrator(&calls), logger.Nop(), 10*time.Millisecond, 0, trigger)

	r.Start(context.Background())
	waitFor(t, time.Second, func() bool { return calls.Load() >= 2 })
	r.Stop()

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() > settled+1 {
		t.Errorf("refreshes kept running after Stop: %d then %d", settled, calls.Load())
	}
}

func TestContextCancelHaltsLoop(t *testing.T) {
	var calls atomic.Int64
	trigger := make(chan struct{}, 1)
	r := NewRefresher(newCountingOrchestrator(&calls), logger.Nop(), 10*time.Millisecond, 0, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	time.Sleep(50 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() > settled {
		t.Errorf("refreshes kept running after context cancel")
	}
}

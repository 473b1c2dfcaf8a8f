// Package scheduler drives periodic refresh cycles.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/refresh"
)

// Refresher invokes the orchestrator on an interval, with a bounded
// random delay before each scheduled run so periodic callers across
// processes do not stampede the lock at the same instant. Manual
// triggers skip the jitter.
type Refresher struct {
	orchestrator  *refresh.Orchestrator
	logger        logger.Logger
	interval      time.Duration
	jitter        time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewRefresher(
	orch *refresh.Orchestrator,
	log logger.Logger,
	interval time.Duration,
	jitter time.Duration,
	manualTrigger chan struct{},
) *Refresher {
	return &Refresher{
		orchestrator:  orch,
		logger:        log,
		interval:      interval,
		jitter:        jitter,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs one immediate refresh, then the periodic loop. A failed
// cycle is logged and waits for the next trigger; it never takes the
// process down.
func (r *Refresher) Start(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !r.sleepJitter(ctx) {
					return
				}
				r.runOnce(ctx)
			case <-r.manualTrigger:
				r.logger.Info("manual refresh triggered")
				r.runOnce(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the periodic loop.
func (r *Refresher) Stop() {
	close(r.stopCh)
}

// sleepJitter waits a random fraction of the configured jitter. It
// returns false when the scheduler is shutting down.
func (r *Refresher) sleepJitter(ctx context.Context) bool {
	if r.jitter <= 0 {
		return true
	}
	delay := time.Duration(rand.Int63n(int64(r.jitter)))
	r.logger.Debug("delaying scheduled refresh",
		logger.Duration("jitter", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	idx, err := r.orchestrator.RefreshAndPersist(ctx)
	switch {
	case err != nil:
		r.logger.Error("refresh cycle failed",
			logger.Error(err))
	case idx == nil:
		r.logger.Debug("refresh cycle skipped, lock held elsewhere")
	default:
		r.logger.Info("refresh cycle completed",
			logger.Int("count", idx.Count),
			logger.Bool("changed", idx.ChangeDetected))
	}
}

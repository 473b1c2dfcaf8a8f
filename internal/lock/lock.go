// Package lock serializes refresh attempts across processes using a
// single object-storage key as a TTL-bounded lease. The backing store
// has no compare-and-swap, so acquisition is verified by reading the
// lock back and checking that our instance id survived. Best effort,
// not linearizable; acceptable for a few processes refreshing
// infrequently.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/objstore"
)

// Entry is the persisted lease.
type Entry struct {
	InstanceID string `json:"instanceId"`
	AcquiredAt int64  `json:"acquiredAt"` // epoch ms
	TTLMs      int64  `json:"ttlMs"`
}

// IsExpired reports whether the lease has outlived its TTL at the given
// instant. Expired leases are reclaimed passively by the next acquirer.
func IsExpired(e Entry, now time.Time) bool {
	return now.UnixMilli()-e.AcquiredAt > e.TTLMs
}

// Coordinator manages the refresh lease for one process.
type Coordinator struct {
	backend    objstore.Backend
	key        string
	instanceID string
	ttl        time.Duration
	logger     logger.Logger
	now        func() time.Time
}

func New(backend objstore.Backend, key string, ttl time.Duration, log logger.Logger) *Coordinator {
	return &Coordinator{
		backend:    backend,
		key:        key,
		instanceID: uuid.NewString(),
		ttl:        ttl,
		logger:     log,
		now:        time.Now,
	}
}

// InstanceID identifies this process's lease writes.
func (c *Coordinator) InstanceID() string { return c.instanceID }

// TryAcquire attempts to take the lease. A false result is not an
// error: it means another refresh is in flight (or the read-back lost a
// race) and the caller should skip this cycle.
func (c *Coordinator) TryAcquire(ctx context.Context) (bool, error) {
	var existing Entry
	found, err := objstore.GetJSON(ctx, c.backend, c.key, &existing)
	if err != nil {
		return false, fmt.Errorf("read lock: %w", err)
	}

	now := c.now()
	if found && existing.InstanceID != c.instanceID {
		if !IsExpired(existing, now) {
			return false, nil
		}
		c.logger.Warn("reclaiming expired refresh lock",
			logger.String("holder", existing.InstanceID),
			logger.Int64("acquired_at_ms", existing.AcquiredAt),
			logger.Int64("ttl_ms", existing.TTLMs))
	}

	entry := Entry{
		InstanceID: c.instanceID,
		AcquiredAt: now.UnixMilli(),
		TTLMs:      c.ttl.Milliseconds(),
	}
	if err := objstore.PutJSON(ctx, c.backend, c.key, entry); err != nil {
		return false, fmt.Errorf("write lock: %w", err)
	}

	// Read-back verification: if another process overwrote the lease
	// between our write and this read, it won the race.
	var check Entry
	found, err = objstore.GetJSON(ctx, c.backend, c.key, &check)
	if err != nil {
		return false, fmt.Errorf("verify lock: %w", err)
	}
	if !found || check.InstanceID != c.instanceID {
		c.logger.Info("lost lock acquisition race",
			logger.String("winner", check.InstanceID))
		return false, nil
	}

	return true, nil
}

// Release deletes the lease. Safe to call on any exit path.
func (c *Coordinator) Release(ctx context.Context) error {
	if err := c.backend.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// WithLock runs fn under the lease. The lease is released on every exit
// path, including panics and fn errors, so a failed refresh can never
// hold the lock beyond its TTL. The boolean reports whether the lease
// was acquired at all.
func (c *Coordinator) WithLock(ctx context.Context, fn func(context.Context) error) (bool, error) {
	acquired, err := c.TryAcquire(ctx)
	if err != nil || !acquired {
		return false, err
	}

	defer func() {
		if err := c.Release(ctx); err != nil {
			c.logger.Warn("failed to release refresh lock; lease will expire by TTL",
				logger.Error(err))
		}
	}()

	return true, fn(ctx)
}

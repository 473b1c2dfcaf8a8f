// Package refresh composes the lock coordinator, the injected fetch
// callback, the change detector and the bookmark store into one
// idempotent refresh-and-persist operation.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/linkshelf/shelf/internal/cache"
	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/lock"
	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/metrics"
	"github.com/linkshelf/shelf/internal/slug"
	"github.com/linkshelf/shelf/internal/store"
)

// FetchFunc retrieves the full bookmark set from the external source.
// It is injected by the caller; the orchestrator has no opinion on its
// transport, auth or retry policy.
type FetchFunc func(ctx context.Context) ([]domain.Bookmark, error)

// ErrTooFewBookmarks marks a fetch that returned fewer bookmarks than
// the configured minimum. Treated as a probable partial upstream
// response: the previous good dataset is preserved.
var ErrTooFewBookmarks = errors.New("suspiciously few bookmarks fetched")

// tagWriteConcurrency bounds the parallel tag-page fan-out. Tag objects
// are independent of each other; all of them complete before the
// top-level index is published.
const tagWriteConcurrency = 8

type Orchestrator struct {
	lock         *lock.Coordinator
	store        *store.Store
	fetch        FetchFunc
	cache        *cache.Cache
	minBookmarks int
	logger       logger.Logger
	now          func() time.Time
}

// New wires an orchestrator. minBookmarks guards against persisting a
// partial fetch; there is no principled default, so it is explicit
// configuration.
func New(
	lk *lock.Coordinator,
	st *store.Store,
	fetch FetchFunc,
	memCache *cache.Cache,
	minBookmarks int,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		lock:         lk,
		store:        st,
		fetch:        fetch,
		cache:        memCache,
		minBookmarks: minBookmarks,
		logger:       log,
		now:          time.Now,
	}
}

// RefreshAndPersist runs one refresh cycle. It returns (nil, nil) when
// the lock is held elsewhere — that is a skipped cycle, not a failure,
// and the fetch callback is never invoked. On success it returns the
// freshly written index.
func (o *Orchestrator) RefreshAndPersist(ctx context.Context) (*domain.Index, error) {
	var result *domain.Index

	acquired, err := o.lock.WithLock(ctx, func(ctx context.Context) error {
		idx, err := o.run(ctx)
		result = idx
		return err
	})
	if err != nil {
		metrics.RecordRefresh("failed")
		return nil, err
	}
	if !acquired {
		metrics.RecordRefresh("skipped")
		o.logger.Info("refresh already in progress elsewhere, skipping cycle")
		return nil, nil
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context) (*domain.Index, error) {
	now := o.now()

	prev, err := o.store.ReadIndex(ctx)
	if err != nil {
		return nil, err
	}

	bookmarks, err := o.fetch(ctx)
	if err != nil {
		o.recordAttempt(ctx, prev, now)
		return nil, fmt.Errorf("fetch bookmarks: %w", err)
	}

	if len(bookmarks) < o.minBookmarks {
		o.recordAttempt(ctx, prev, now)
		return nil, fmt.Errorf("%w: got %d, minimum %d",
			ErrTooFewBookmarks, len(bookmarks), o.minBookmarks)
	}

	domain.SortCanonical(bookmarks)
	checksum := domain.Checksum(bookmarks)

	if !domain.ChangeDetected(prev, len(bookmarks), checksum) {
		// Heartbeat only: advance freshness timestamps, skip the
		// expensive page/tag rewrite entirely.
		idx := *prev
		idx.LastFetchedAt = now
		idx.LastAttemptedAt = now
		idx.ChangeDetected = false
		if err := o.store.WriteIndex(ctx, &idx); err != nil {
			return nil, err
		}
		metrics.RecordRefresh("unchanged")
		o.logger.Info("bookmarks unchanged, heartbeat written",
			logger.Int("count", idx.Count),
			logger.String("checksum", idx.Checksum))
		return &idx, nil
	}

	idx, err := o.persist(ctx, bookmarks, checksum, now)
	if err != nil {
		return nil, err
	}

	// Publish happened; in-process and downstream caches are stale now.
	o.cache.FlushAll(ctx)

	metrics.RecordRefresh("changed")
	o.logger.Info("bookmarks refreshed",
		logger.Int("count", idx.Count),
		logger.Int("pages", idx.TotalPages),
		logger.String("checksum", idx.Checksum))
	return idx, nil
}

// persist writes the new dataset in publish-safe order: full dataset,
// bookmark pages, tag objects, slug mapping, and the top-level index
// last — a reader can never observe an index that points at unwritten
// pages.
func (o *Orchestrator) persist(ctx context.Context, bookmarks []domain.Bookmark, checksum string, now time.Time) (*domain.Index, error) {
	if err := o.store.WriteFullDataset(ctx, bookmarks); err != nil {
		return nil, err
	}

	pageSize := o.store.PageSize()
	totalPages := domain.PageCount(len(bookmarks), pageSize)
	for n := 1; n <= totalPages; n++ {
		if err := o.store.WritePage(ctx, n, store.Paginate(bookmarks, n, pageSize)); err != nil {
			return nil, err
		}
	}

	if err := o.writeTagObjects(ctx, store.TagGroups(bookmarks), now); err != nil {
		return nil, err
	}

	mapping := slug.GenerateMapping(bookmarks, now)
	if err := o.store.WriteSlugMapping(ctx, mapping); err != nil {
		return nil, err
	}

	idx := &domain.Index{
		Count:           len(bookmarks),
		TotalPages:      totalPages,
		PageSize:        pageSize,
		LastModified:    now,
		LastFetchedAt:   now,
		LastAttemptedAt: now,
		Checksum:        checksum,
		ChangeDetected:  true,
	}
	if err := o.store.WriteIndex(ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// writeTagObjects fans the per-tag writes out in parallel. Tag objects
// are order-insensitive relative to each other, but every one of them
// completes before the caller publishes the top-level index.
func (o *Orchestrator) writeTagObjects(ctx context.Context, groups map[string][]domain.Bookmark, now time.Time) error {
	sem := make(chan struct{}, tagWriteConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for tagSlug, tagged := range groups {
		wg.Add(1)
		go func(tagSlug string, tagged []domain.Bookmark) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := o.writeTag(ctx, tagSlug, tagged, now); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(tagSlug, tagged)
	}

	wg.Wait()
	return firstErr
}

// writeTag writes one tag's pages, then its index — the same
// writes-before-publish rule as the top level.
func (o *Orchestrator) writeTag(ctx context.Context, tagSlug string, tagged []domain.Bookmark, now time.Time) error {
	pageSize := o.store.PageSize()
	totalPages := domain.PageCount(len(tagged), pageSize)
	for n := 1; n <= totalPages; n++ {
		if err := o.store.WriteTagPage(ctx, tagSlug, n, store.Paginate(tagged, n, pageSize)); err != nil {
			return err
		}
	}

	idx := &domain.Index{
		Count:           len(tagged),
		TotalPages:      totalPages,
		PageSize:        pageSize,
		LastModified:    now,
		LastFetchedAt:   now,
		LastAttemptedAt: now,
		Checksum:        domain.Checksum(tagged),
		ChangeDetected:  true,
	}
	return o.store.WriteTagIndex(ctx, tagSlug, idx)
}

// recordAttempt bumps lastAttemptedAt on the existing index after a
// failed fetch, preserving lastFetchedAt so "attempted" and
// "successfully fetched" stay distinguishable. Best effort: the fetch
// error is the one worth surfacing.
func (o *Orchestrator) recordAttempt(ctx context.Context, prev *domain.Index, now time.Time) {
	if prev == nil {
		return
	}
	idx := *prev
	idx.LastAttemptedAt = now
	if err := o.store.WriteIndex(ctx, &idx); err != nil {
		o.logger.Warn("failed to record refresh attempt",
			logger.Error(err))
	}
}

// Package store reads and writes the paginated bookmark layout: the
// top-level index, per-page datasets, per-tag indices/pages, the full
// dataset and the slug mapping. Derived objects (pages, tag pages) are
// disposable; they can always be regenerated from the full dataset.
package store

import (
	"context"
	"fmt"

	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/objstore"
	"github.com/linkshelf/shelf/internal/slug"
)

// DefaultPageSize matches the presentation layer's page length.
const DefaultPageSize = 24

type Store struct {
	backend  objstore.Backend
	keys     Keys
	pageSize int
	logger   logger.Logger
}

func New(backend objstore.Backend, keys Keys, pageSize int, log logger.Logger) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{
		backend:  backend,
		keys:     keys,
		pageSize: pageSize,
		logger:   log,
	}
}

func (s *Store) PageSize() int { return s.pageSize }
func (s *Store) Keys() Keys    { return s.keys }

// ReadIndex returns the top-level index, or nil when none has been
// written yet (first refresh has not completed, or cache was cleared).
func (s *Store) ReadIndex(ctx context.Context) (*domain.Index, error) {
	var idx domain.Index
	found, err := objstore.GetJSON(ctx, s.backend, s.keys.Index(), &idx)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &idx, nil
}

func (s *Store) WriteIndex(ctx context.Context, idx *domain.Index) error {
	if err := objstore.PutJSON(ctx, s.backend, s.keys.Index(), idx); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// ReadPage returns page n of the canonical ordering, or nil on a miss.
// A missing page is a cache miss, not a failure.
func (s *Store) ReadPage(ctx context.Context, n int) ([]domain.Bookmark, error) {
	var page []domain.Bookmark
	found, err := objstore.GetJSON(ctx, s.backend, s.keys.Page(n), &page)
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", n, err)
	}
	if !found {
		return nil, nil
	}
	return page, nil
}

func (s *Store) WritePage(ctx context.Context, n int, bookmarks []domain.Bookmark) error {
	if err := objstore.PutJSON(ctx, s.backend, s.keys.Page(n), bookmarks); err != nil {
		return fmt.Errorf("write page %d: %w", n, err)
	}
	return nil
}

// ReadTagIndex returns the per-tag index for a tag slug, nil on miss.
func (s *Store) ReadTagIndex(ctx context.Context, tagSlug string) (*domain.Index, error) {
	var idx domain.Index
	found, err := objstore.GetJSON(ctx, s.backend, s.keys.TagIndex(tagSlug), &idx)
	if err != nil {
		return nil, fmt.Errorf("read tag index %s: %w", tagSlug, err)
	}
	if !found {
		return nil, nil
	}
	return &idx, nil
}

func (s *Store) WriteTagIndex(ctx context.Context, tagSlug string, idx *domain.Index) error {
	if err := objstore.PutJSON(ctx, s.backend, s.keys.TagIndex(tagSlug), idx); err != nil {
		return fmt.Errorf("write tag index %s: %w", tagSlug, err)
	}
	return nil
}

// ReadTagPage returns page n for a tag slug, nil on miss.
func (s *Store) ReadTagPage(ctx context.Context, tagSlug string, n int) ([]domain.Bookmark, error) {
	var page []domain.Bookmark
	found, err := objstore.GetJSON(ctx, s.backend, s.keys.TagPage(tagSlug, n), &page)
	if err != nil {
		return nil, fmt.Errorf("read tag page %s/%d: %w", tagSlug, n, err)
	}
	if !found {
		return nil, nil
	}
	return page, nil
}

func (s *Store) WriteTagPage(ctx context.Context, tagSlug string, n int, bookmarks []domain.Bookmark) error {
	if err := objstore.PutJSON(ctx, s.backend, s.keys.TagPage(tagSlug, n), bookmarks); err != nil {
		return fmt.Errorf("write tag page %s/%d: %w", tagSlug, n, err)
	}
	return nil
}

// ReadFullDataset returns the complete canonical dataset. Unlike the
// derived objects, read errors here are propagated: the fallback paths
// depend on this object, so there is nothing to fall back to.
func (s *Store) ReadFullDataset(ctx context.Context) ([]domain.Bookmark, error) {
	var all []domain.Bookmark
	found, err := objstore.GetJSON(ctx, s.backend, s.keys.FullDataset(), &all)
	if err != nil {
		return nil, fmt.Errorf("read full dataset: %w", err)
	}
	if !found {
		return nil, nil
	}
	return all, nil
}

func (s *Store) WriteFullDataset(ctx context.Context, bookmarks []domain.Bookmark) error {
	if err := objstore.PutJSON(ctx, s.backend, s.keys.FullDataset(), bookmarks); err != nil {
		return fmt.Errorf("write full dataset: %w", err)
	}
	return nil
}

// ReadSlugMapping returns the persisted slug mapping, nil on miss.
func (s *Store) ReadSlugMapping(ctx context.Context) (*slug.Mapping, error) {
	var m slug.Mapping
	found, err := objstore.GetJSON(ctx, s.backend, s.keys.SlugMapping(), &m)
	if err != nil {
		return nil, fmt.Errorf("read slug mapping: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}

func (s *Store) WriteSlugMapping(ctx context.Context, m *slug.Mapping) error {
	if err := objstore.PutJSON(ctx, s.backend, s.keys.SlugMapping(), m); err != nil {
		return fmt.Errorf("write slug mapping: %w", err)
	}
	return nil
}

// GetTagPage serves a tag page: precomputed object first, and on a miss
// the full dataset is filtered and paginated in memory. The recomputed
// page is written back best-effort so the derived cache self-heals.
func (s *Store) GetTagPage(ctx context.Context, tagSlug string, n int) ([]domain.Bookmark, error) {
	page, err := s.ReadTagPage(ctx, tagSlug, n)
	if err != nil {
		return nil, err
	}
	if page != nil {
		return page, nil
	}

	all, err := s.ReadFullDataset(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		return nil, nil
	}

	matched := FilterByTag(all, tagSlug)
	page = Paginate(matched, n, s.pageSize)
	if page == nil {
		return nil, nil
	}

	if err := s.WriteTagPage(ctx, tagSlug, n, page); err != nil {
		s.logger.Warn("failed to self-heal tag page",
			logger.String("tag", tagSlug),
			logger.Int("page", n),
			logger.Error(err))
	}
	return page, nil
}

// Clear deletes every object under the environment prefix, lock
// included. Returns the number of objects removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	keys, err := s.backend.List(ctx, s.keys.Prefix())
	if err != nil {
		return 0, fmt.Errorf("list objects for clear: %w", err)
	}
	for _, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			return 0, fmt.Errorf("clear: %w", err)
		}
	}
	return len(keys), nil
}

// TagSlugOf resolves a tag to its normalized slug, whichever encoding
// the source used. An explicit record slug takes precedence over the
// name, but it passes through the same normalization so both encodings
// of a tag resolve identically and only safe slugs reach key paths.
func TagSlugOf(t domain.Tag) string {
	if t.Slug != "" {
		return slug.ForTag(t.Slug)
	}
	return slug.ForTag(t.Name)
}

// FilterByTag returns the bookmarks whose normalized tag set contains
// the target slug, preserving input order.
func FilterByTag(bookmarks []domain.Bookmark, tagSlug string) []domain.Bookmark {
	var matched []domain.Bookmark
	for _, b := range bookmarks {
		for _, t := range b.Tags {
			if TagSlugOf(t) == tagSlug {
				matched = append(matched, b)
				break
			}
		}
	}
	return matched
}

// TagGroups buckets bookmarks by normalized tag slug, preserving the
// canonical order within each bucket.
func TagGroups(bookmarks []domain.Bookmark) map[string][]domain.Bookmark {
	groups := make(map[string][]domain.Bookmark)
	for _, b := range bookmarks {
		seen := make(map[string]bool, len(b.Tags))
		for _, t := range b.Tags {
			ts := TagSlugOf(t)
			if ts == "" || seen[ts] {
				continue
			}
			seen[ts] = true
			groups[ts] = append(groups[ts], b)
		}
	}
	return groups
}

// Paginate returns page n (1-based) of bookmarks, nil when the page is
// out of range.
func Paginate(bookmarks []domain.Bookmark, n, pageSize int) []domain.Bookmark {
	start, end := domain.PageSlice(len(bookmarks), pageSize, n)
	if start == end {
		return nil
	}
	return bookmarks[start:end]
}

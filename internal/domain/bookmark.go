package domain

import (
	"sort"
	"time"
)

// Bookmark is a single entry of the externally-sourced collection.
// The upstream service owns it; within one refresh cycle it is treated
// as immutable input.
type Bookmark struct {
	// ID is the stable identifier assigned by the external source.
	ID string `json:"id"`

	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Tags as delivered by the source, normalized on decode (see Tag).
	Tags []Tag `json:"tags,omitempty"`

	// DateBookmarked is when the entry was saved upstream.
	// It drives the canonical ordering of the collection.
	DateBookmarked time.Time `json:"dateBookmarked"`

	// SourceUpdatedAt is the upstream record's update timestamp.
	SourceUpdatedAt time.Time `json:"sourceUpdatedAt"`

	// ModifiedAt is set when the entry was edited after creation.
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
}

// LastModification returns the most recent modification timestamp,
// the value the change detector fingerprints.
func (b Bookmark) LastModification() time.Time {
	if b.ModifiedAt != nil && b.ModifiedAt.After(b.SourceUpdatedAt) {
		return *b.ModifiedAt
	}
	return b.SourceUpdatedAt
}

// SortCanonical orders bookmarks most-recently-bookmarked first,
// ties broken by ID. Every persisted page slices this ordering.
func SortCanonical(bookmarks []Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		bi, bj := bookmarks[i], bookmarks[j]
		if !bi.DateBookmarked.Equal(bj.DateBookmarked) {
			return bi.DateBookmarked.After(bj.DateBookmarked)
		}
		return bi.ID < bj.ID
	})
}

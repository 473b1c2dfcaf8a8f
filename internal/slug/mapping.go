package slug

import (
	"fmt"
	"sort"
	"time"

	"github.com/linkshelf/shelf/internal/domain"
)

// MappingVersion is bumped when the generation algorithm changes in a
// way that invalidates previously persisted mappings.
const MappingVersion = 1

// Entry is one bookmark's slot in the mapping.
type Entry struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Mapping is the persisted id<->slug lookup table. It is regenerated
// wholesale from the current bookmark set, never patched incrementally,
// so stale collisions cannot survive additions or removals.
//
// Invariant: for every (id, e) in Slugs, Reverse[e.Slug] == id, and all
// slugs are unique.
type Mapping struct {
	Version   int              `json:"version"`
	Generated time.Time        `json:"generated"`
	Count     int              `json:"count"`
	Slugs     map[string]Entry `json:"slugs"`
	Reverse   map[string]string `json:"reverseMap"`
}

// SlugFor returns the slug assigned to a bookmark id.
func (m *Mapping) SlugFor(id string) (string, bool) {
	e, ok := m.Slugs[id]
	return e.Slug, ok
}

// IDFor returns the bookmark id a slug resolves to.
func (m *Mapping) IDFor(slug string) (string, bool) {
	id, ok := m.Reverse[slug]
	return id, ok
}

// GenerateMapping assigns a unique slug to every bookmark. Collisions on
// the same base slug get numeric suffixes (-2, -3, ...) ordered by
// bookmark date then id, so the output depends only on the set's
// contents, never on the order bookmarks arrive in.
func GenerateMapping(bookmarks []domain.Bookmark, now time.Time) *Mapping {
	groups := make(map[string][]domain.Bookmark)
	for _, b := range bookmarks {
		base := ForBookmark(b.URL, b.Title)
		if base == "" {
			base = "bookmark"
		}
		groups[base] = append(groups[base], b)
	}

	bases := make([]string, 0, len(groups))
	for base := range groups {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	m := &Mapping{
		Version:   MappingVersion,
		Generated: now,
		Count:     len(bookmarks),
		Slugs:     make(map[string]Entry, len(bookmarks)),
		Reverse:   make(map[string]string, len(bookmarks)),
	}

	// Every base is reserved up front so a suffixed slug can never
	// steal a slug that is some other group's genuine base (e.g. a
	// "foo" collision suffix landing on the real host slug "foo-2").
	used := make(map[string]bool, len(bookmarks))
	for _, base := range bases {
		used[base] = true
	}

	for _, base := range bases {
		group := groups[base]
		// Oldest bookmark keeps the bare slug; later ones get suffixes.
		sort.Slice(group, func(i, j int) bool {
			if !group[i].DateBookmarked.Equal(group[j].DateBookmarked) {
				return group[i].DateBookmarked.Before(group[j].DateBookmarked)
			}
			return group[i].ID < group[j].ID
		})

		for i, b := range group {
			candidate := base
			if i > 0 {
				n := i + 1
				candidate = fmt.Sprintf("%s-%d", base, n)
				for used[candidate] {
					n++
					candidate = fmt.Sprintf("%s-%d", base, n)
				}
				used[candidate] = true
			}

			m.Slugs[b.ID] = Entry{ID: b.ID, Slug: candidate, URL: b.URL, Title: b.Title}
			m.Reverse[candidate] = b.ID
		}
	}

	return m
}

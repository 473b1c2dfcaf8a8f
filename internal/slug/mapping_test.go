package slug

import (
	"math/rand"
	"testing"
	"time"

	"github.com/linkshelf/shelf/internal/domain"
)

func bm(id, url, title string, daysAgo int) domain.Bookmark {
	return domain.Bookmark{
		ID:             id,
		URL:            url,
		Title:          title,
		DateBookmarked: time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func TestGenerateMappingUniqueAndBidirectional(t *testing.T) {
	bookmarks := []domain.Bookmark{
		bm("a1", "https://github.com/golang/go", "Go", 10),
		bm("a2", "https://github.com/stretchr/testify", "Testify", 5),
		bm("a3", "https://github.com/uber-go/zap", "Zap", 1),
		bm("b1", "https://example.org/", "Example", 3),
	}

	m := GenerateMapping(bookmarks, time.Now())

	if m.Count != len(bookmarks) {
		t.Fatalf("Count = %d, want %d", m.Count, len(bookmarks))
	}
	if len(m.Slugs) != len(bookmarks) || len(m.Reverse) != len(bookmarks) {
		t.Fatalf("maps not fully populated: %d slugs, %d reverse", len(m.Slugs), len(m.Reverse))
	}

	seen := map[string]bool{}
	for id, e := range m.Slugs {
		if seen[e.Slug] {
			t.Errorf("slug %q assigned twice", e.Slug)
		}
		seen[e.Slug] = true

		back, ok := m.IDFor(e.Slug)
		if !ok || back != id {
			t.Errorf("IDFor(%q) = %q, %v; want %q", e.Slug, back, ok, id)
		}
	}
}

func TestGenerateMappingCollisionSuffixes(t *testing.T) {
	// Three bookmarks sharing the github-com base. The oldest keeps the
	// bare slug, later ones get -2 and -3 by bookmark date.
	bookmarks := []domain.Bookmark{
		bm("newest", "https://github.com/c", "C", 1),
		bm("oldest", "https://github.com/a", "A", 30),
		bm("middle", "https://github.com/b", "B", 15),
	}

	m := GenerateMapping(bookmarks, time.Now())

	want := map[string]string{
		"oldest": "github-com",
		"middle": "github-com-2",
		"newest": "github-com-3",
	}
	for id, wantSlug := range want {
		got, ok := m.SlugFor(id)
		if !ok || got != wantSlug {
			t.Errorf("SlugFor(%q) = %q, %v; want %q", id, got, ok, wantSlug)
		}
	}
}

func TestGenerateMappingOrderIndependent(t *testing.T) {
	bookmarks := []domain.Bookmark{
		bm("x1", "https://github.com/one", "One", 9),
		bm("x2", "https://github.com/two", "Two", 7),
		bm("x3", "https://gitlab.com/three", "Three", 5),
		bm("x4", "https://github.com/four", "Four", 3),
		bm("x5", "https://example.net/", "Five", 1),
	}

	ref := GenerateMapping(bookmarks, time.Now())

	for i := 0; i < 10; i++ {
		shuffled := make([]domain.Bookmark, len(bookmarks))
		copy(shuffled, bookmarks)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		m := GenerateMapping(shuffled, time.Now())
		for id := range ref.Slugs {
			if m.Slugs[id].Slug != ref.Slugs[id].Slug {
				t.Fatalf("slug for %q depends on input order: %q vs %q",
					id, m.Slugs[id].Slug, ref.Slugs[id].Slug)
			}
		}
	}
}

func TestGenerateMappingSuffixSkipsTakenBase(t *testing.T) {
	// "foo-2" exists as a real base slug; the collision suffix for the
	// second foo bookmark has to skip over it.
	bookmarks := []domain.Bookmark{
		bm("f1", "https://foo/", "Foo old", 20),
		bm("f2", "https://foo/other", "Foo new", 2),
		bm("taken", "https://foo-2/", "Squatter", 10),
	}

	m := GenerateMapping(bookmarks, time.Now())

	slugs := map[string]string{}
	for id, e := range m.Slugs {
		slugs[id] = e.Slug
	}
	if slugs["f1"] != "foo" {
		t.Errorf("f1 slug = %q, want foo", slugs["f1"])
	}
	if slugs["taken"] != "foo-2" {
		t.Errorf("taken slug = %q, want foo-2", slugs["taken"])
	}
	if slugs["f2"] == "foo-2" {
		t.Errorf("f2 slug = %q collides with the squatted base", slugs["f2"])
	}
	if slugs["f2"] != "foo-3" {
		t.Errorf("f2 slug = %q, want foo-3", slugs["f2"])
	}
}

func TestGenerateMappingEmptyBase(t *testing.T) {
	bookmarks := []domain.Bookmark{bm("weird", "", "", 1)}
	m := GenerateMapping(bookmarks, time.Now())
	if got, ok := m.SlugFor("weird"); !ok || got != "bookmark" {
		t.Errorf("SlugFor(weird) = %q, %v; want bookmark", got, ok)
	}
}

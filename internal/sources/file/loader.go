// Package file provides a YAML-backed fetch source for local
// development and offline use, standing in for the external bookmark
// API behind the same callback shape.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/slug"
)

type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Fetch reads and parses the bookmarks file.
func (l *Loader) Fetch(_ context.Context) ([]domain.Bookmark, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("read bookmarks file: %w", err)
	}

	var parsed bookmarksFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse bookmarks yaml: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(parsed.Bookmarks))
	for _, e := range parsed.Bookmarks {
		if e.URL == "" {
			continue
		}

		id := e.ID
		if id == "" {
			id = stableID(e.URL)
		}

		updatedAt := e.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = e.DateBookmarked
		}

		tags := make([]domain.Tag, 0, len(e.Tags))
		for _, name := range e.Tags {
			tags = append(tags, domain.Tag{Name: name, Slug: slug.ForTag(name)})
		}

		bookmarks = append(bookmarks, domain.Bookmark{
			ID:              id,
			URL:             e.URL,
			Title:           e.Title,
			Description:     e.Description,
			Tags:            tags,
			DateBookmarked:  e.DateBookmarked,
			SourceUpdatedAt: updatedAt,
		})
	}
	return bookmarks, nil
}

// stableID derives an id from the URL so entries without an explicit id
// keep the same identity across reloads.
func stableID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:16]
}

package raindrop

import (
	"strconv"

	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/slug"
)

// mapItems converts API items to domain bookmarks, normalizing tags to
// the internal slug+name representation at the boundary. Items without
// a link are dropped.
func mapItems(items []apiItem) []domain.Bookmark {
	bookmarks := make([]domain.Bookmark, 0, len(items))
	for _, it := range items {
		if it.Link == "" {
			continue
		}

		tags := make([]domain.Tag, 0, len(it.Tags))
		for _, name := range it.Tags {
			tags = append(tags, domain.Tag{Name: name, Slug: slug.ForTag(name)})
		}

		bookmarks = append(bookmarks, domain.Bookmark{
			ID:              strconv.FormatInt(it.ID, 10),
			URL:             it.Link,
			Title:           it.Title,
			Description:     it.Excerpt,
			Tags:            tags,
			DateBookmarked:  it.Created,
			SourceUpdatedAt: it.LastUpdate,
		})
	}
	return bookmarks
}

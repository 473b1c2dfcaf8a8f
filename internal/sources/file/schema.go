package file

import "time"

// bookmarksFile is the root of bookmarks.yaml.
type bookmarksFile struct {
	Bookmarks []fileEntry `yaml:"bookmarks"`
}

// fileEntry is one bookmark as declared in the YAML file.
type fileEntry struct {
	ID             string    `yaml:"id"`
	URL            string    `yaml:"url"`
	Title          string    `yaml:"title"`
	Description    string    `yaml:"description"`
	Tags           []string  `yaml:"tags"`
	DateBookmarked time.Time `yaml:"dateBookmarked"`
	UpdatedAt      time.Time `yaml:"updatedAt"`
}

package store

import "fmt"

// Keys derives the object-storage layout for one deployment
// environment. Environments get distinct prefixes ("bookmarks",
// "bookmarks-dev") so dev and prod never collide in a shared bucket.
//
// Layout:
//
//	<prefix>/index.json
//	<prefix>/all.json
//	<prefix>/page-{n}.json
//	<prefix>/slugs.json
//	<prefix>/tags/{tag-slug}/index.json
//	<prefix>/tags/{tag-slug}/page-{n}.json
//	<prefix>/refresh-lock.json
type Keys struct {
	prefix string
}

// NewKeys builds the key schema for an environment. "production" and
// the empty string map to the bare prefix; anything else ("dev",
// "staging") becomes a suffix.
func NewKeys(environment string) Keys {
	prefix := "bookmarks"
	if environment != "" && environment != "production" {
		prefix += "-" + environment
	}
	return Keys{prefix: prefix}
}

// Prefix returns the namespace all keys live under, with a trailing
// slash, suitable for list/delete sweeps.
func (k Keys) Prefix() string { return k.prefix + "/" }

func (k Keys) Index() string       { return k.prefix + "/index.json" }
func (k Keys) FullDataset() string { return k.prefix + "/all.json" }
func (k Keys) SlugMapping() string { return k.prefix + "/slugs.json" }
func (k Keys) Lock() string        { return k.prefix + "/refresh-lock.json" }

func (k Keys) Page(n int) string {
	return fmt.Sprintf("%s/page-%d.json", k.prefix, n)
}

func (k Keys) TagIndex(tagSlug string) string {
	return fmt.Sprintf("%s/tags/%s/index.json", k.prefix, tagSlug)
}

func (k Keys) TagPage(tagSlug string, n int) string {
	return fmt.Sprintf("%s/tags/%s/page-%d.json", k.prefix, tagSlug, n)
}

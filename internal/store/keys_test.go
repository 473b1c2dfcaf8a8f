package store

import "testing"

func TestNewKeysPrefixes(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantPrefix  string
	}{
		{"production uses bare prefix", "production", "bookmarks/"},
		{"empty uses bare prefix", "", "bookmarks/"},
		{"dev gets suffix", "dev", "bookmarks-dev/"},
		{"staging gets suffix", "staging", "bookmarks-staging/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewKeys(tt.environment).Prefix(); got != tt.wantPrefix {
				t.Errorf("Prefix() = %q, want %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestKeysLayout(t *testing.T) {
	k := NewKeys("dev")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"index", k.Index(), "bookmarks-dev/index.json"},
		{"full dataset", k.FullDataset(), "bookmarks-dev/all.json"},
		{"slug mapping", k.SlugMapping(), "bookmarks-dev/slugs.json"},
		{"lock", k.Lock(), "bookmarks-dev/refresh-lock.json"},
		{"page", k.Page(3), "bookmarks-dev/page-3.json"},
		{"tag index", k.TagIndex("golang"), "bookmarks-dev/tags/golang/index.json"},
		{"tag page", k.TagPage("golang", 2), "bookmarks-dev/tags/golang/page-2.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTagUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Tag
		wantErr bool
	}{
		{"bare string", `"golang"`, Tag{Name: "golang"}, false},
		{
			"full record",
			`{"name":"Go","slug":"go","color":"#00add8"}`,
			Tag{Name: "Go", Slug: "go", Color: "#00add8"},
			false,
		},
		{"record without slug", `{"name":"Go"}`, Tag{Name: "Go"}, false},
		{"record missing name", `{"slug":"go"}`, Tag{}, true},
		{"invalid json", `{`, Tag{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Tag
			err := json.Unmarshal([]byte(tt.in), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagMixedForms(t *testing.T) {
	payload := `["golang", {"name":"Self Hosting","slug":"self-hosting"}]`
	var tags []Tag
	if err := json.Unmarshal([]byte(payload), &tags); err != nil {
		t.Fatalf("unmarshal mixed tag list: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].Name != "golang" || tags[1].Slug != "self-hosting" {
		t.Errorf("unexpected tags: %+v", tags)
	}
}

func TestSortCanonical(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}
	bookmarks := []Bookmark{
		{ID: "b", DateBookmarked: day(1)},
		{ID: "c", DateBookmarked: day(3)},
		{ID: "a", DateBookmarked: day(1)},
		{ID: "d", DateBookmarked: day(2)},
	}

	SortCanonical(bookmarks)

	wantOrder := []string{"c", "d", "a", "b"}
	for i, want := range wantOrder {
		if bookmarks[i].ID != want {
			t.Errorf("position %d: got %q, want %q", i, bookmarks[i].ID, want)
		}
	}
}

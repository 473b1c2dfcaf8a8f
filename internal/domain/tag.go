package domain

import (
	"encoding/json"
	"fmt"
)

// Tag is a bookmark label. Upstream encodes tags either as a bare string
// ("golang") or as a record ({"name": "Go", "slug": "go", "color": "#00add8"}).
// Both forms decode into this single representation; we always re-encode
// as the record form.
type Tag struct {
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Color string `json:"color,omitempty"`
}

// tagRecord avoids recursing into Tag.UnmarshalJSON.
type tagRecord struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty tag value")
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decode tag string: %w", err)
		}
		*t = Tag{Name: name}
		return nil
	}

	var rec tagRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode tag record: %w", err)
	}
	if rec.Name == "" {
		return fmt.Errorf("tag record missing name")
	}
	*t = Tag{Name: rec.Name, Slug: rec.Slug, Color: rec.Color}
	return nil
}

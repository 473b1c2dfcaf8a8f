package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum fingerprints a bookmark set for change detection. Only
// identity and modification time feed the hash, so volatile fields
// (fetch timestamps, enrichment data) never flip it. Input order is
// irrelevant: entries are sorted by ID before hashing.
func Checksum(bookmarks []Bookmark) string {
	ids := make([]int, len(bookmarks))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool {
		return bookmarks[ids[a]].ID < bookmarks[ids[b]].ID
	})

	var sb strings.Builder
	for _, i := range ids {
		b := bookmarks[i]
		fmt.Fprintf(&sb, "%s|%d;", b.ID, b.LastModification().UnixMilli())
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])[:16]
}

// ChangeDetected reports whether a freshly fetched set differs
// materially from what the previous index recorded. A nil previous
// index always counts as a change.
func ChangeDetected(prev *Index, count int, checksum string) bool {
	if prev == nil {
		return true
	}
	return prev.Count != count || prev.Checksum != checksum
}

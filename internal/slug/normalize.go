package slug

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Spelled-out symbols. "+", "&" and "#" become separate words so that
// "C++" -> "c-plus-plus", "AI & ML" -> "ai-and-ml" and "C#" ->
// "c-sharp", while "." is replaced inline so that "Node.js" ->
// "nodedotjs". Near-collisions stay distinct: "C++", "C+", "C#" and
// "C" map to "c-plus-plus", "c-plus", "c-sharp" and "c".
var symbolWords = strings.NewReplacer(
	"+", " plus ",
	"&", " and ",
	"#", " sharp ",
	".", "dot",
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize turns an arbitrary string into a URL-safe slug: lower-cased,
// diacritics stripped, runs of non-alphanumerics collapsed into single
// hyphens, leading/trailing hyphens trimmed.
func Normalize(s string) string {
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)

	var sb strings.Builder
	sb.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// ForTag converts a human tag name into its URL-safe slug. The name and
// the slug are deterministically interconvertible in the sense that the
// same name always yields the same slug.
func ForTag(name string) string {
	return Normalize(symbolWords.Replace(name))
}

// ForBookmark derives the base slug for a bookmark from its URL's host
// (minus a leading "www."), falling back to the title when the URL has
// no usable host. "https://github.com/x" -> "github-com".
func ForBookmark(rawURL, title string) string {
	if u, err := url.Parse(rawURL); err == nil {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if host != "" {
			return Normalize(strings.ReplaceAll(host, ".", " "))
		}
	}
	return Normalize(title)
}

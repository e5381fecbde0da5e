package transform

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 80

// deaccent decomposes accented characters and strips the combining marks, so
// "Café" slugifies to "cafe" instead of losing the letter.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title into a URL-safe slug matching [a-z0-9-]+. Runs of
// non-alphanumeric characters collapse to a single hyphen, and the result is
// truncated to a bounded length at a hyphen boundary where possible. A title
// with no usable characters yields "post".
func Slugify(title string) string {
	normalized, _, err := transform.String(deaccent, title)
	if err != nil {
		normalized = title
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(normalized) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "post"
	}

	if len(slug) > maxSlugLen {
		truncated := slug[:maxSlugLen]
		if idx := strings.LastIndex(truncated, "-"); idx > 0 {
			truncated = truncated[:idx]
		}
		slug = strings.Trim(truncated, "-")
	}

	return slug
}

// SlugSet hands out unique slugs within a single run. A repeated slug gets a
// numeric suffix: "my-post", "my-post-2", "my-post-3".
type SlugSet struct {
	seen map[string]bool
}

func NewSlugSet() *SlugSet {
	return &SlugSet{seen: make(map[string]bool)}
}

func (s *SlugSet) Claim(slug string) string {
	if !s.seen[slug] {
		s.seen[slug] = true
		return slug
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		if !s.seen[candidate] {
			s.seen[candidate] = true
			return candidate
		}
	}
}

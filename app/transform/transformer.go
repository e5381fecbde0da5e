package transform

import (
	"context"
	"strings"
	"time"

	"github.com/yrizos/blog-import/app/content"
	"github.com/yrizos/blog-import/app/feed"
)

// Transformer is a source-specific normalization policy. Every source
// (Medium, Dev.to, Goodreads) has its own quirks but the same contract: one
// feed entry in, one normalized post out. A malformed entry yields an
// *EntryError, which the importer logs and skips.
type Transformer interface {
	Source() string
	Run(ctx context.Context, entry feed.Entry) (*content.Post, error)
}

// publishDate resolves the entry timestamp, preferring the published date
// over the updated date, normalized to loc (UTC by default).
func publishDate(entry feed.Entry, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch {
	case entry.PublishedAt != nil:
		return entry.PublishedAt.In(loc), nil
	case entry.UpdatedAt != nil:
		return entry.UpdatedAt.In(loc), nil
	default:
		return time.Time{}, entryErr(entry.Title, "entry is missing a publish date")
	}
}

// normalizeTags lowercases and de-duplicates tags while preserving their
// original order.
func normalizeTags(tags []string) []string {
	var normalized []string
	seen := make(map[string]bool)

	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		normalized = append(normalized, cleaned)
	}

	return normalized
}

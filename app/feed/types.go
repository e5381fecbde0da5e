package feed

import (
	"time"
)

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// Entry is a single feed item as delivered by the remote feed. The raw body
// (Content/Description) is passed through unmodified; HTML cleanup happens in
// the transform package.
type Entry struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	Content     string
	Description string
	Authors     []string
	Categories  []string

	// Custom holds item-level elements gofeed does not recognize, e.g. the
	// book metadata in Goodreads shelf feeds (author_name, isbn, user_rating).
	Custom map[string]string

	// ThumbnailURL is the media:thumbnail URL, when the feed carries one.
	ThumbnailURL string
}

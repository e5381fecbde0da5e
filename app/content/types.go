package content

import (
	"time"
)

// Post is a normalized record ready to be written as a content file. Both
// blog posts and book records use this shape; the book-only fields stay empty
// for posts and are omitted from the front matter.
type Post struct {
	Title        string
	Slug         string
	Date         time.Time
	CanonicalURL string
	Body         string
	Tags         []string
	Draft        bool
	Type         string

	ImageURL string
	ImageAlt string

	// Book metadata, populated by the Goodreads transformer only.
	Author string
	Rating int
	ISBN   string
}

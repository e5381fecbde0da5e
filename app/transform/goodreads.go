package transform

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/yrizos/blog-import/app/content"
	"github.com/yrizos/blog-import/app/feed"
)

// GoodreadsTransformer normalizes entries from Goodreads shelf feeds. Shelf
// feeds are standard RSS with the book metadata tucked into item-level custom
// elements (author_name, isbn, user_rating, user_shelves, ...), which gofeed
// surfaces in the entry's Custom map.
type GoodreadsTransformer struct {
	slugs    *SlugSet
	markdown *MarkdownConverter
	postType string
	draft    bool
	loc      *time.Location
}

type GoodreadsOptions struct {
	Slugs    *SlugSet
	Markdown *MarkdownConverter
	PostType string
	Draft    bool
	Location *time.Location
}

func NewGoodreadsTransformer(opts GoodreadsOptions) *GoodreadsTransformer {
	if opts.Slugs == nil {
		opts.Slugs = NewSlugSet()
	}
	if opts.Markdown == nil {
		opts.Markdown = NewMarkdownConverter()
	}
	if opts.PostType == "" {
		opts.PostType = "books"
	}
	return &GoodreadsTransformer{
		slugs:    opts.Slugs,
		markdown: opts.Markdown,
		postType: opts.PostType,
		draft:    opts.Draft,
		loc:      opts.Location,
	}
}

func (t *GoodreadsTransformer) Source() string {
	return "goodreads"
}

func (t *GoodreadsTransformer) Run(ctx context.Context, entry feed.Entry) (*content.Post, error) {
	if entry.Title == "" {
		return nil, entryErr(entry.Link, "entry has no title")
	}
	if entry.Link == "" {
		return nil, entryErr(entry.Title, "entry is missing the book URL")
	}

	canonicalURL := CleanURL(entry.Link)

	body := ""
	if description := t.custom(entry, "book_description"); description != "" {
		converted, err := t.markdown.Run(description, canonicalURL)
		if err != nil {
			return nil, entryErr(entry.Title, "failed to convert book description: %w", err)
		}
		body = converted
	}

	date, err := t.readDate(entry)
	if err != nil {
		return nil, err
	}

	rating := 0
	if raw := t.custom(entry, "user_rating"); raw != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			rating = parsed
		}
	}

	var shelves []string
	for _, shelf := range strings.Split(t.custom(entry, "user_shelves"), ",") {
		if trimmed := strings.TrimSpace(shelf); trimmed != "" {
			shelves = append(shelves, trimmed)
		}
	}

	imageURL := t.custom(entry, "book_large_image_url")
	if imageURL == "" {
		imageURL = t.custom(entry, "book_image_url")
	}

	return &content.Post{
		Title:        entry.Title,
		Slug:         t.slugs.Claim(Slugify(entry.Title)),
		Date:         date,
		CanonicalURL: canonicalURL,
		Body:         body,
		Tags:         normalizeTags(shelves),
		Draft:        t.draft,
		Type:         t.postType,
		ImageURL:     imageURL,
		ImageAlt:     entry.Title,
		Author:       strings.TrimSpace(t.custom(entry, "author_name")),
		Rating:       rating,
		ISBN:         strings.TrimSpace(t.custom(entry, "isbn")),
	}, nil
}

// readDate prefers the date the book was marked read, then the date it was
// added to the shelf, then the feed item's own timestamp.
func (t *GoodreadsTransformer) readDate(entry feed.Entry) (time.Time, error) {
	loc := t.loc
	if loc == nil {
		loc = time.UTC
	}

	for _, key := range []string{"user_read_at", "user_date_added"} {
		raw := strings.TrimSpace(t.custom(entry, key))
		if raw == "" {
			continue
		}
		if parsed, err := time.Parse(time.RFC1123Z, raw); err == nil {
			return parsed.In(loc), nil
		}
		if parsed, err := time.Parse(time.RFC1123, raw); err == nil {
			return parsed.In(loc), nil
		}
	}

	return publishDate(entry, t.loc)
}

func (t *GoodreadsTransformer) custom(entry feed.Entry, key string) string {
	if entry.Custom == nil {
		return ""
	}
	return entry.Custom[key]
}

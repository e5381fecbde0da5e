package transform

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"

	"github.com/yrizos/blog-import/app/content"
	"github.com/yrizos/blog-import/app/feed"
)

var (
	originalLinePattern = regexp.MustCompile(`(?i)Originally published at`)
	originalDatePattern = regexp.MustCompile(`(?i)on\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
)

// trackingImagePattern matches Medium's per-post stats pixel, which must not
// end up in the converted body.
var trackingImagePattern = regexp.MustCompile(`(?i)medium\.com/_/stat`)

// MediumTransformer normalizes entries from Medium-style feeds. Medium wraps
// posts in a few quirks the generic conversion cannot handle: a stats pixel
// appended to the body, a cover image as the first <img>, an "Originally
// published at" trailer that carries the real canonical URL and date, and
// headings that start at whatever level the author picked.
type MediumTransformer struct {
	slugs     *SlugSet
	markdown  *MarkdownConverter
	extractor *Extractor
	postType  string
	draft     bool
	loc       *time.Location
}

type MediumOptions struct {
	Slugs     *SlugSet
	Markdown  *MarkdownConverter
	Extractor *Extractor
	PostType  string
	Draft     bool
	Location  *time.Location
}

func NewMediumTransformer(opts MediumOptions) *MediumTransformer {
	if opts.Slugs == nil {
		opts.Slugs = NewSlugSet()
	}
	if opts.Markdown == nil {
		opts.Markdown = NewMarkdownConverter()
	}
	if opts.PostType == "" {
		opts.PostType = "posts"
	}
	return &MediumTransformer{
		slugs:     opts.Slugs,
		markdown:  opts.Markdown,
		extractor: opts.Extractor,
		postType:  opts.PostType,
		draft:     opts.Draft,
		loc:       opts.Location,
	}
}

func (t *MediumTransformer) Source() string {
	return "medium"
}

func (t *MediumTransformer) Run(ctx context.Context, entry feed.Entry) (*content.Post, error) {
	if entry.Title == "" {
		return nil, entryErr(entry.Link, "entry has no title")
	}

	htmlBody := entry.Content
	if htmlBody == "" {
		htmlBody = entry.Description
	}
	if htmlBody == "" && t.extractor != nil && entry.Link != "" {
		extracted, err := t.extractor.Run(ctx, entry.Link)
		if err != nil {
			slog.Warn("Content extraction failed", "url", entry.Link, "error", err)
		} else {
			htmlBody = extracted
		}
	}
	if htmlBody == "" {
		return nil, entryErr(entry.Title, "entry does not contain HTML content")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, entryErr(entry.Title, "failed to parse entry HTML: %w", err)
	}

	overrideURL, overrideDate := extractOriginalMetadata(doc)
	imageURL, imageAlt := popFirstImage(doc)
	removeTrackingImages(doc)
	normalizeHeadings(doc)

	canonicalURL := overrideURL
	if canonicalURL == "" {
		canonicalURL = entry.Link
	}
	if canonicalURL == "" {
		return nil, entryErr(entry.Title, "entry is missing the original URL")
	}
	canonicalURL = CleanURL(canonicalURL)

	cleanedHTML, err := doc.Find("body").Html()
	if err != nil {
		return nil, entryErr(entry.Title, "failed to serialize entry HTML: %w", err)
	}

	body, err := t.markdown.Run(cleanedHTML, canonicalURL)
	if err != nil {
		return nil, entryErr(entry.Title, "failed to convert body: %w", err)
	}

	date, err := publishDate(entry, t.loc)
	if err != nil {
		return nil, err
	}
	if overrideDate != nil {
		date = *overrideDate
	}

	return &content.Post{
		Title:        entry.Title,
		Slug:         t.slugs.Claim(Slugify(entry.Title)),
		Date:         date,
		CanonicalURL: canonicalURL,
		Body:         body,
		Tags:         normalizeTags(entry.Categories),
		Draft:        t.draft,
		Type:         t.postType,
		ImageURL:     imageURL,
		ImageAlt:     imageAlt,
	}, nil
}

// extractOriginalMetadata finds Medium's "Originally published at ... on
// January 2, 2006" trailer, removes it from the body and returns the original
// URL and date it points at.
func extractOriginalMetadata(doc *goquery.Document) (string, *time.Time) {
	var originalURL string
	var originalDate *time.Time

	doc.Find("p, div, section").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" || !originalLinePattern.MatchString(text) {
			return true
		}

		if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
			originalURL = CleanURL(href)
		}

		if match := originalDatePattern.FindStringSubmatch(text); match != nil {
			if parsed, err := time.Parse("January 2, 2006", match[1]); err == nil {
				parsed = parsed.UTC()
				originalDate = &parsed
			}
		}

		sel.Remove()
		return false
	})

	return originalURL, originalDate
}

// popFirstImage removes the first non-tracking image from the body and
// returns its URL and alt text, so it can become the post's cover image.
func popFirstImage(doc *goquery.Document) (string, string) {
	var imageURL, imageAlt string

	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" || trackingImagePattern.MatchString(src) {
			sel.Remove()
			return true
		}

		imageURL = src
		imageAlt, _ = sel.Attr("alt")
		sel.Remove()
		return false
	})

	return imageURL, imageAlt
}

func removeTrackingImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" || trackingImagePattern.MatchString(src) {
			sel.Remove()
		}
	})
}

// normalizeHeadings shifts all headings so the highest level present becomes
// H2, preserving the relative hierarchy. H1 is reserved for the page title.
func normalizeHeadings(doc *goquery.Document) {
	minLevel := 7
	for level := 1; level <= 6; level++ {
		if doc.Find(fmt.Sprintf("h%d", level)).Length() > 0 && level < minLevel {
			minLevel = level
		}
	}
	if minLevel == 7 {
		return
	}

	offset := 2 - minLevel

	// Walk away from the shift direction so a renamed heading is never
	// picked up again by a later iteration.
	levels := []int{6, 5, 4, 3, 2, 1}
	if offset < 0 {
		levels = []int{1, 2, 3, 4, 5, 6}
	}

	for _, level := range levels {
		newLevel := level + offset
		if newLevel < 2 {
			newLevel = 2
		} else if newLevel > 6 {
			newLevel = 6
		}
		if newLevel == level {
			continue
		}

		tag := fmt.Sprintf("h%d", newLevel)
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, sel *goquery.Selection) {
			for _, node := range sel.Nodes {
				node.Data = tag
				node.DataAtom = atom.Lookup([]byte(tag))
			}
		})
	}
}

package feed

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed markup into entries, preserving feed order. Entries are
// not re-sorted; most feeds already list the newest item first.
func (p *Parser) Run(data []byte) (*Metadata, []Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ParseError{Err: err}
	}

	metadata := &Metadata{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Language:    parsed.Language,
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, p.normalizeItem(item))
	}

	return metadata, entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		Title:        item.Title,
		Link:         item.Link,
		Content:      item.Content,
		Description:  item.Description,
		PublishedAt:  item.PublishedParsed,
		UpdatedAt:    item.UpdatedParsed,
		Custom:       item.Custom,
		ThumbnailURL: p.extractThumbnail(item),
	}

	entry.Authors = p.extractAuthors(item)

	if item.Categories != nil {
		entry.Categories = item.Categories
	}

	return entry
}

func (p *Parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author == nil {
				continue
			}
			if name := strings.TrimSpace(author.Name); name != "" {
				authors = append(authors, name)
			} else if email := strings.TrimSpace(author.Email); email != "" {
				authors = append(authors, email)
			}
		}
	} else if item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return authors
}

// extractThumbnail pulls the media:thumbnail URL out of the Media RSS
// extension. Dev.to feeds use it for cover images.
func (p *Parser) extractThumbnail(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}

	thumbnails, ok := media["thumbnail"]
	if !ok || len(thumbnails) == 0 {
		return ""
	}

	return thumbnails[0].Attrs["url"]
}

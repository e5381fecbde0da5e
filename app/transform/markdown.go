package transform

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// MarkdownConverter turns HTML bodies into Markdown. Paragraphs, headings,
// lists, code blocks, links and images survive the conversion; unknown tags
// are dropped rather than propagated as structure, which keeps the output
// deterministic for odd feed markup.
type MarkdownConverter struct{}

func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

// Run converts htmlBody to Markdown. Relative links and image sources are
// resolved against the host of baseURL, so the output never depends on where
// the file ends up being served from.
func (c *MarkdownConverter) Run(htmlBody, baseURL string) (string, error) {
	domain := ""
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			domain = u.Host
		}
	}

	converter := md.NewConverter(domain, true, nil)

	markdown, err := converter.ConvertString(htmlBody)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}

// CleanURL strips the query and fragment components, leaving the stable
// scheme://host/path form used as the deduplication key.
func CleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

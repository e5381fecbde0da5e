package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yrizos/blog-import/app/content"
	"github.com/yrizos/blog-import/app/feed"
)

const DefaultDevtoAPIURL = "https://dev.to/api"

// DevtoAPI fetches article data from the Dev.to REST API. The API hands back
// the native Markdown body, which is better than converting the feed HTML.
type DevtoAPI struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func NewDevtoAPI(baseURL string, httpClient *http.Client, userAgent string) *DevtoAPI {
	if baseURL == "" {
		baseURL = DefaultDevtoAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &DevtoAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

type devtoArticle struct {
	Title        string          `json:"title"`
	BodyMarkdown string          `json:"body_markdown"`
	CoverImage   string          `json:"cover_image"`
	TagList      json.RawMessage `json:"tag_list"`
}

// tags handles both shapes the API has used over time: a JSON array and a
// comma-separated string.
func (a *devtoArticle) tags() []string {
	if len(a.TagList) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(a.TagList, &list); err == nil {
		return list
	}

	var joined string
	if err := json.Unmarshal(a.TagList, &joined); err == nil {
		var tags []string
		for _, tag := range strings.Split(joined, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		return tags
	}

	return nil
}

func (c *DevtoAPI) FetchArticle(ctx context.Context, articlePath string) (*devtoArticle, error) {
	apiURL := fmt.Sprintf("%s/articles/%s", c.baseURL, articlePath)

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var article devtoArticle
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, fmt.Errorf("failed to decode article: %w", err)
	}

	return &article, nil
}

// DevtoTransformer normalizes entries from Dev.to-style feeds. When the API
// client is set, the article body comes from the API as Markdown; otherwise
// (or when the API call fails) the feed HTML is converted instead.
type DevtoTransformer struct {
	slugs    *SlugSet
	markdown *MarkdownConverter
	api      *DevtoAPI
	postType string
	draft    bool
	loc      *time.Location
}

type DevtoOptions struct {
	Slugs    *SlugSet
	Markdown *MarkdownConverter
	API      *DevtoAPI
	PostType string
	Draft    bool
	Location *time.Location
}

func NewDevtoTransformer(opts DevtoOptions) *DevtoTransformer {
	if opts.Slugs == nil {
		opts.Slugs = NewSlugSet()
	}
	if opts.Markdown == nil {
		opts.Markdown = NewMarkdownConverter()
	}
	if opts.PostType == "" {
		opts.PostType = "posts"
	}
	return &DevtoTransformer{
		slugs:    opts.Slugs,
		markdown: opts.Markdown,
		api:      opts.API,
		postType: opts.PostType,
		draft:    opts.Draft,
		loc:      opts.Location,
	}
}

func (t *DevtoTransformer) Source() string {
	return "devto"
}

func (t *DevtoTransformer) Run(ctx context.Context, entry feed.Entry) (*content.Post, error) {
	if entry.Title == "" {
		return nil, entryErr(entry.Link, "entry has no title")
	}
	if entry.Link == "" {
		return nil, entryErr(entry.Title, "entry is missing the original URL")
	}

	canonicalURL := CleanURL(entry.Link)

	var body, imageURL, imageAlt string
	var tags []string

	if t.api != nil {
		if articlePath, err := devtoArticlePath(canonicalURL); err != nil {
			slog.Warn("Cannot derive Dev.to article path, using feed content",
				"url", canonicalURL, "error", err)
		} else if article, err := t.api.FetchArticle(ctx, articlePath); err != nil {
			slog.Warn("Dev.to API request failed, using feed content",
				"article", articlePath, "error", err)
		} else {
			body = strings.TrimSpace(article.BodyMarkdown)
			imageURL = article.CoverImage
			imageAlt = article.Title
			tags = article.tags()
		}
	}

	if body == "" {
		htmlBody := entry.Content
		if htmlBody == "" {
			htmlBody = entry.Description
		}
		if htmlBody == "" {
			return nil, entryErr(entry.Title, "entry does not contain any content")
		}

		converted, err := t.markdown.Run(htmlBody, canonicalURL)
		if err != nil {
			return nil, entryErr(entry.Title, "failed to convert body: %w", err)
		}
		body = converted
	}

	if imageURL == "" && entry.ThumbnailURL != "" {
		imageURL = entry.ThumbnailURL
		imageAlt = entry.Title
	}

	if len(tags) == 0 {
		tags = entry.Categories
	}

	date, err := publishDate(entry, t.loc)
	if err != nil {
		return nil, err
	}

	return &content.Post{
		Title:        entry.Title,
		Slug:         t.slugs.Claim(Slugify(entry.Title)),
		Date:         date,
		CanonicalURL: canonicalURL,
		Body:         body,
		Tags:         normalizeTags(tags),
		Draft:        t.draft,
		Type:         t.postType,
		ImageURL:     imageURL,
		ImageAlt:     imageAlt,
	}, nil
}

// devtoArticlePath extracts the username/slug pair the API expects from an
// article URL like https://dev.to/username/title-slug-1a2b.
func devtoArticlePath(articleURL string) (string, error) {
	u, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("invalid article URL: %w", err)
	}

	var parts []string
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return "", fmt.Errorf("article URL has no username/slug path: %s", articleURL)
	}

	return parts[0] + "/" + parts[1], nil
}

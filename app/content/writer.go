package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	ImageModeRemote   = "remote"
	ImageModeDownload = "download"

	CollisionSuffix = "suffix"
	CollisionFail   = "fail"
)

// Writer persists normalized posts as content files. A slug that is already
// taken on disk by a different canonical URL is resolved per the collision
// policy: "suffix" picks the next free numbered filename, "fail" aborts the
// run. Re-writing the same canonical URL is skipped entirely, which makes
// repeated imports idempotent.
type Writer struct {
	dir          string
	imagesDir    string
	imageWebPath string
	imageMode    string
	onCollision  string
	httpClient   *http.Client
	userAgent    string
}

type WriterOptions struct {
	Dir          string
	ImagesDir    string
	ImageWebPath string
	ImageMode    string
	OnCollision  string
	HTTPClient   *http.Client
	UserAgent    string
}

func NewWriter(opts WriterOptions) *Writer {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.ImageMode == "" {
		opts.ImageMode = ImageModeRemote
	}
	if opts.OnCollision == "" {
		opts.OnCollision = CollisionSuffix
	}
	return &Writer{
		dir:          opts.Dir,
		imagesDir:    opts.ImagesDir,
		imageWebPath: opts.ImageWebPath,
		imageMode:    opts.ImageMode,
		onCollision:  opts.OnCollision,
		httpClient:   opts.HTTPClient,
		userAgent:    opts.UserAgent,
	}
}

// Run writes one post. It returns the file path and whether a new file was
// created; (path, false, nil) means an identical canonical URL already owns
// the slug and the write was skipped.
func (w *Writer) Run(ctx context.Context, post *Post) (string, bool, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", false, &WriteError{Path: w.dir, Err: err}
	}

	slug, skipPath, err := w.resolveSlug(post)
	if err != nil {
		return "", false, err
	}
	if skipPath != "" {
		return skipPath, false, nil
	}

	fm := FrontMatter{
		Title:        post.Title,
		Date:         post.Date,
		Draft:        post.Draft,
		Type:         post.Type,
		CanonicalURL: post.CanonicalURL,
		Tags:         post.Tags,
		Author:       post.Author,
		Rating:       post.Rating,
		ISBN:         post.ISBN,
	}

	if post.ImageURL != "" {
		fm.Image = post.ImageURL
		fm.ImageAlt = post.ImageAlt

		if w.imageMode == ImageModeDownload {
			webPath, err := w.downloadImage(ctx, slug, post.ImageURL)
			if err != nil {
				slog.Warn("Image download failed, keeping remote URL",
					"slug", slug, "url", post.ImageURL, "error", err)
			} else {
				fm.Image = webPath
			}
		}
	}

	data, err := EncodeFile(fm, post.Body)
	if err != nil {
		return "", false, &WriteError{Path: w.contentPath(slug), Err: err}
	}

	filePath := w.contentPath(slug)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", false, &WriteError{Path: filePath, Err: err}
	}

	return filePath, true, nil
}

// resolveSlug finds the filename for a post. It returns either a free slug to
// write to, or the path of an existing file holding the same canonical URL.
func (w *Writer) resolveSlug(post *Post) (string, string, error) {
	candidate := post.Slug

	for i := 2; ; i++ {
		filePath := w.contentPath(candidate)

		data, err := os.ReadFile(filePath)
		if os.IsNotExist(err) {
			return candidate, "", nil
		}
		if err != nil {
			return "", "", &WriteError{Path: filePath, Err: err}
		}

		fm, _, decodeErr := DecodeFile(data)
		if decodeErr == nil && fm.CanonicalURL == post.CanonicalURL {
			return "", filePath, nil
		}

		if w.onCollision == CollisionFail {
			existingURL := ""
			if decodeErr == nil {
				existingURL = fm.CanonicalURL
			}
			return "", "", &CollisionError{
				Slug:        candidate,
				ExistingURL: existingURL,
				NewURL:      post.CanonicalURL,
			}
		}

		candidate = fmt.Sprintf("%s-%d", post.Slug, i)
	}
}

func (w *Writer) contentPath(slug string) string {
	return filepath.Join(w.dir, slug+".md")
}

func (w *Writer) downloadImage(ctx context.Context, slug, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	filename := slug + imageExtension(imageURL)
	imagePath := filepath.Join(w.imagesDir, filename)

	if err := os.MkdirAll(w.imagesDir, 0o755); err != nil {
		return "", &WriteError{Path: w.imagesDir, Err: err}
	}

	out, err := os.Create(imagePath)
	if err != nil {
		return "", &WriteError{Path: imagePath, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", &WriteError{Path: imagePath, Err: err}
	}

	return path.Join(w.imageWebPath, filename), nil
}

// imageExtension keeps the original extension when it looks like an image
// format, falling back to .jpg for CDN URLs without one.
func imageExtension(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}

	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

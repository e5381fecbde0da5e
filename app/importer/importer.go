package importer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yrizos/blog-import/app/content"
	"github.com/yrizos/blog-import/app/feed"
	"github.com/yrizos/blog-import/app/sources"
	"github.com/yrizos/blog-import/app/transform"
)

// Options carries everything the pipeline needs beyond the source itself.
// main fills it from the global configuration; tests construct it directly.
type Options struct {
	ContentDir   string
	BooksDir     string
	ImagesDir    string
	ImageWebPath string
	ImageMode    string
	OnCollision  string

	UserAgent      string
	Timeout        time.Duration
	ExtractContent bool
	Draft          bool
	Location       *time.Location

	HTTPClient *http.Client
}

// Summary is the per-source result reported at the end of a run.
type Summary struct {
	Source   string
	Total    int
	Imported int
	Skipped  int
	Failed   int
}

// Importer drives the fetch, parse, filter, transform, write pipeline. One
// source runs as a single linear pass; RunAll fans sources out over a bounded
// worker pool while keeping all writes serialized.
type Importer struct {
	opts   Options
	client *feed.Client
	parser *feed.Parser
}

// dirState is the shared view of one destination directory: the canonical
// URLs known to exist, guarded by a mutex so concurrent sources never race on
// slug or duplicate checks.
type dirState struct {
	mu       sync.Mutex
	existing map[string]bool
	writer   *content.Writer
}

func New(opts Options) *Importer {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Importer{
		opts:   opts,
		client: feed.NewClient(opts.HTTPClient, opts.UserAgent, opts.Timeout),
		parser: feed.NewParser(),
	}
}

// Run imports a single source. Fetch, parse and scan failures abort the run;
// a malformed individual entry is logged and skipped.
func (i *Importer) Run(ctx context.Context, src sources.Source) (*Summary, error) {
	state, err := i.scanDestination(i.destinationDir(src))
	if err != nil {
		return nil, err
	}
	return i.runSource(ctx, src, state)
}

// RunAll imports every enabled source. Destination directories are scanned
// once before any writer starts; sources then run concurrently up to the
// worker limit. A failing source does not stop the others, but the combined
// error is returned so the caller can exit non-zero.
func (i *Importer) RunAll(ctx context.Context, srcs []sources.Source, workers int) ([]Summary, error) {
	if workers < 1 {
		workers = 1
	}

	states := make(map[string]*dirState)
	for _, src := range srcs {
		if src.Disabled {
			continue
		}
		dir := i.destinationDir(src)
		if _, ok := states[dir]; ok {
			continue
		}
		state, err := i.scanDestination(dir)
		if err != nil {
			return nil, err
		}
		states[dir] = state
	}

	var (
		mu        sync.Mutex
		summaries []Summary
		runErrs   []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, src := range srcs {
		if src.Disabled {
			slog.Debug("Source disabled, skipping", "source", src.Name)
			continue
		}

		g.Go(func() error {
			summary, err := i.runSource(ctx, src, states[i.destinationDir(src)])

			mu.Lock()
			defer mu.Unlock()
			if summary != nil {
				summaries = append(summaries, *summary)
			}
			if err != nil {
				slog.Error("Source import failed", "source", src.Name, "error", err)
				runErrs = append(runErrs, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		runErrs = append(runErrs, err)
	}

	return summaries, errors.Join(runErrs...)
}

func (i *Importer) runSource(ctx context.Context, src sources.Source, state *dirState) (*Summary, error) {
	summary := &Summary{Source: src.Name}
	started := time.Now()

	data, err := i.client.Run(ctx, src.URL)
	if err != nil {
		return summary, err
	}

	_, entries, err := i.parser.Run(data)
	if err != nil {
		return summary, err
	}
	summary.Total = len(entries)

	transformer, err := i.transformerFor(src)
	if err != nil {
		return summary, err
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		// Cheap pre-filter on the entry link; the transformed canonical URL
		// is checked again below because some sources override it.
		entryURL := transform.CleanURL(entry.Link)
		if entryURL != "" && state.known(entryURL) {
			slog.Debug("Already imported, skipping", "source", src.Name, "url", entryURL)
			summary.Skipped++
			continue
		}

		post, err := transformer.Run(ctx, entry)
		if err != nil {
			slog.Warn("Skipping malformed entry", "source", src.Name, "error", err)
			summary.Failed++
			continue
		}

		written, err := state.write(ctx, post, entryURL)
		if err != nil {
			return summary, err
		}

		if written {
			summary.Imported++
			slog.Info("Imported", "source", src.Name, "slug", post.Slug, "title", post.Title)
		} else {
			slog.Debug("Already imported, skipping", "source", src.Name, "url", post.CanonicalURL)
			summary.Skipped++
		}
	}

	slog.Info("Import completed",
		"source", src.Name,
		"duration", time.Since(started).Round(time.Millisecond),
		"total", summary.Total,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary, nil
}

func (s *dirState) known(canonicalURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing[canonicalURL]
}

// write persists one post while holding the directory lock, so two sources
// writing into the same directory can never pick the same filename or import
// the same canonical URL twice.
func (s *dirState) write(ctx context.Context, post *content.Post, entryURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existing[post.CanonicalURL] {
		return false, nil
	}

	_, written, err := s.writer.Run(ctx, post)
	if err != nil {
		return false, err
	}

	s.existing[post.CanonicalURL] = true
	if entryURL != "" {
		s.existing[entryURL] = true
	}

	return written, nil
}

func (i *Importer) scanDestination(dir string) (*dirState, error) {
	existing, err := content.NewScanner(dir).Run()
	if err != nil {
		return nil, err
	}

	slog.Debug("Destination scanned", "dir", dir, "existing", len(existing))

	return &dirState{
		existing: existing,
		writer: content.NewWriter(content.WriterOptions{
			Dir:          dir,
			ImagesDir:    i.opts.ImagesDir,
			ImageWebPath: i.opts.ImageWebPath,
			ImageMode:    i.opts.ImageMode,
			OnCollision:  i.opts.OnCollision,
			HTTPClient:   i.opts.HTTPClient,
			UserAgent:    i.opts.UserAgent,
		}),
	}, nil
}

func (i *Importer) destinationDir(src sources.Source) string {
	if src.ContentDir != "" {
		return src.ContentDir
	}
	if src.Kind == sources.KindGoodreads {
		return i.opts.BooksDir
	}
	return i.opts.ContentDir
}

func (i *Importer) transformerFor(src sources.Source) (transform.Transformer, error) {
	slugs := transform.NewSlugSet()
	markdown := transform.NewMarkdownConverter()

	switch src.Kind {
	case sources.KindMedium:
		var extractor *transform.Extractor
		if i.opts.ExtractContent {
			extractor = transform.NewExtractor(i.opts.HTTPClient, i.opts.UserAgent)
		}
		return transform.NewMediumTransformer(transform.MediumOptions{
			Slugs:     slugs,
			Markdown:  markdown,
			Extractor: extractor,
			PostType:  src.Type,
			Draft:     i.opts.Draft,
			Location:  i.opts.Location,
		}), nil

	case sources.KindDevto:
		return transform.NewDevtoTransformer(transform.DevtoOptions{
			Slugs:    slugs,
			Markdown: markdown,
			API:      transform.NewDevtoAPI(src.APIURL, i.opts.HTTPClient, i.opts.UserAgent),
			PostType: src.Type,
			Draft:    i.opts.Draft,
			Location: i.opts.Location,
		}), nil

	case sources.KindGoodreads:
		return transform.NewGoodreadsTransformer(transform.GoodreadsOptions{
			Slugs:    slugs,
			Markdown: markdown,
			PostType: src.Type,
			Draft:    i.opts.Draft,
			Location: i.opts.Location,
		}), nil

	default:
		return nil, &UnknownSourceError{Kind: src.Kind}
	}
}

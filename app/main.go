package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/yrizos/blog-import/app/cfg"
	"github.com/yrizos/blog-import/app/importer"
	"github.com/yrizos/blog-import/app/sources"
)

const (
	defaultMediumFeed = "https://medium.com/feed/@yrizos"
	defaultDevtoFeed  = "https://dev.to/feed/yrizos"

	goodreadsShelfFeed = "https://www.goodreads.com/review/list_rss/%s?shelf=%s"
)

type mediumCommand struct {
	FeedURL string `long:"feed-url" env:"MEDIUM_FEED_URL" default:"https://medium.com/feed/@yrizos" description:"Medium feed URL"`
	opts    *cfg.Opts
}

func (c *mediumCommand) Execute(args []string) error {
	return runOne(sources.Source{
		Name: "medium",
		Kind: sources.KindMedium,
		URL:  c.FeedURL,
	}, c.opts)
}

type devtoCommand struct {
	FeedURL string `long:"feed-url" env:"DEVTO_FEED_URL" default:"https://dev.to/feed/yrizos" description:"Dev.to feed URL"`
	APIURL  string `long:"api-url" env:"DEVTO_API_URL" description:"Dev.to API base URL override"`
	opts    *cfg.Opts
}

func (c *devtoCommand) Execute(args []string) error {
	return runOne(sources.Source{
		Name:   "devto",
		Kind:   sources.KindDevto,
		URL:    c.FeedURL,
		APIURL: c.APIURL,
	}, c.opts)
}

type goodreadsCommand struct {
	FeedURL string `long:"feed-url" env:"GOODREADS_FEED_URL" description:"Goodreads shelf feed URL (overrides --user-id/--shelf)"`
	UserID  string `long:"user-id" env:"GOODREADS_USER_ID" description:"Goodreads user ID"`
	Shelf   string `long:"shelf" env:"GOODREADS_SHELF" default:"read" description:"Goodreads shelf name"`
	opts    *cfg.Opts
}

func (c *goodreadsCommand) Execute(args []string) error {
	feedURL := c.FeedURL
	if feedURL == "" {
		if c.UserID == "" {
			return fmt.Errorf("either --feed-url or --user-id is required")
		}
		feedURL = fmt.Sprintf(goodreadsShelfFeed, url.PathEscape(c.UserID), url.QueryEscape(c.Shelf))
	}

	return runOne(sources.Source{
		Name: "goodreads",
		Kind: sources.KindGoodreads,
		URL:  feedURL,
	}, c.opts)
}

type allCommand struct {
	Workers int `long:"workers" env:"WORKERS" default:"4" description:"Number of sources imported concurrently"`
	opts    *cfg.Opts
}

func (c *allCommand) Execute(args []string) error {
	srcs, err := sources.Load(c.opts.SourcesFile)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		srcs = defaultSources()
		slog.Info("No sources file found, using built-in defaults", "file", c.opts.SourcesFile)
	}

	ctx, stop := signalContext()
	defer stop()

	summaries, err := newImporter(c.opts).RunAll(ctx, srcs, c.Workers)
	for _, summary := range summaries {
		reportSummary(summary)
	}
	return err
}

type versionCommand struct{}

func (c *versionCommand) Execute(args []string) error {
	fmt.Println(cfg.GetVersion())
	return nil
}

func main() {
	opts := &cfg.Opts{}

	parser := flags.NewParser(opts, flags.Default)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if err := cfg.Setup(opts); err != nil {
			return err
		}
		return command.Execute(args)
	}

	parser.AddCommand("medium", "Import posts from Medium", "Fetch the Medium feed and write new posts as content files.", &mediumCommand{opts: opts})
	parser.AddCommand("devto", "Import posts from Dev.to", "Fetch the Dev.to feed and write new posts as content files.", &devtoCommand{opts: opts})
	parser.AddCommand("goodreads", "Import books from a Goodreads shelf", "Fetch a Goodreads shelf feed and write new book records as content files.", &goodreadsCommand{opts: opts})
	parser.AddCommand("all", "Import every configured source", "Run all sources from the sources file, fetching feeds concurrently.", &allCommand{opts: opts})
	parser.AddCommand("version", "Print the version", "Print the build version and exit.", &versionCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				return
			}
			// go-flags already printed the parse error
			os.Exit(1)
		}
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func runOne(src sources.Source, opts *cfg.Opts) error {
	ctx, stop := signalContext()
	defer stop()

	summary, err := newImporter(opts).Run(ctx, src)
	if summary != nil {
		reportSummary(*summary)
	}
	return err
}

func newImporter(opts *cfg.Opts) *importer.Importer {
	return importer.New(importer.Options{
		ContentDir:     opts.ContentDir,
		BooksDir:       opts.BooksDir,
		ImagesDir:      opts.ImagesDir,
		ImageWebPath:   opts.ImageWebPath,
		ImageMode:      opts.ImageMode,
		OnCollision:    opts.OnCollision,
		UserAgent:      opts.UserAgent,
		Timeout:        opts.HTTPTimeout(),
		ExtractContent: opts.ExtractContent,
		Draft:          opts.Draft,
		Location:       cfg.Location(),
	})
}

func defaultSources() []sources.Source {
	return []sources.Source{
		{Name: "medium", Kind: sources.KindMedium, URL: defaultMediumFeed},
		{Name: "devto", Kind: sources.KindDevto, URL: defaultDevtoFeed},
	}
}

func reportSummary(summary importer.Summary) {
	slog.Info("Run summary",
		"source", summary.Source,
		"total", summary.Total,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

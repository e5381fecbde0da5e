package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/yrizos/blog-import/app/content"
	"github.com/yrizos/blog-import/app/feed"
	"github.com/yrizos/blog-import/app/sources"
)

func feedXML(items string) string {
	return `<?xml version="1.0"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Test Feed</title>
    <link>https://dev.to/yrizos</link>` + items + `
  </channel>
</rss>`
}

func feedItem(title, link, body string) string {
	return fmt.Sprintf(`
    <item>
      <title>%s</title>
      <link>%s</link>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <description>%s</description>
    </item>`, title, link, body)
}

// testServer serves a feed document and a Dev.to-style API that knows no
// articles, which pushes the transformer onto the feed-content fallback.
func testServer(t *testing.T, feedDoc string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedDoc))
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testOptions(t *testing.T, server *httptest.Server) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	return Options{
		ContentDir: filepath.Join(dir, "writing"),
		BooksDir:   filepath.Join(dir, "reading"),
		HTTPClient: server.Client(),
		UserAgent:  "test-agent/1.0",
	}, dir
}

func devtoSource(server *httptest.Server) sources.Source {
	return sources.Source{
		Name:   "devto",
		Kind:   sources.KindDevto,
		URL:    server.URL + "/feed",
		APIURL: server.URL + "/api",
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		t.Fatal(err)
	}
	return len(files)
}

func TestRunImportsAndIsIdempotent(t *testing.T) {
	doc := feedXML(feedItem(
		"Two Hours to Find a Swapped String",
		"https://dev.to/yrizos/two-hours-to-find-a-swapped-string-4e5f",
		"&lt;p&gt;Story of a debugging session.&lt;/p&gt;",
	))
	server := testServer(t, doc)
	opts, _ := testOptions(t, server)

	imp := New(opts)
	summary, err := imp.Run(context.Background(), devtoSource(server))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if summary.Imported != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("Expected 1 imported, got: %+v", summary)
	}

	path := filepath.Join(opts.ContentDir, "two-hours-to-find-a-swapped-string.md")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected content file at %s: %v", path, err)
	}

	fm, _, err := content.DecodeFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if fm.CanonicalURL != "https://dev.to/yrizos/two-hours-to-find-a-swapped-string-4e5f" {
		t.Errorf("Expected canonical URL in front matter, got: %s", fm.CanonicalURL)
	}

	// Second run over the same feed must write nothing
	summary, err = New(opts).Run(context.Background(), devtoSource(server))
	if err != nil {
		t.Fatalf("Expected no error on second run, got: %v", err)
	}
	if summary.Imported != 0 || summary.Skipped != 1 {
		t.Errorf("Expected second run to skip everything, got: %+v", summary)
	}
	if got := countFiles(t, opts.ContentDir); got != 1 {
		t.Errorf("Expected 1 file after second run, got: %d", got)
	}
}

func TestRunAbortsOnInvalidFeed(t *testing.T) {
	server := testServer(t, `<?xml version="1.0"?><rss><channel><title>Broken`)
	opts, _ := testOptions(t, server)

	_, err := New(opts).Run(context.Background(), devtoSource(server))

	var parseErr *feed.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got: %v", err)
	}
	if got := countFiles(t, opts.ContentDir); got != 0 {
		t.Errorf("Expected zero files written, got: %d", got)
	}
}

func TestRunAbortsOnFetchFailure(t *testing.T) {
	server := testServer(t, "")
	opts, _ := testOptions(t, server)

	src := devtoSource(server)
	src.URL = server.URL + "/missing"

	_, err := New(opts).Run(context.Background(), src)

	var fetchErr *feed.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
}

func TestRunSkipsMalformedEntries(t *testing.T) {
	items := ""
	for i := 1; i <= 5; i++ {
		if i == 3 {
			// No title and no link: transformation must fail for this one
			items += `
    <item>
      <description>malformed</description>
    </item>`
			continue
		}
		items += feedItem(
			fmt.Sprintf("Post %d", i),
			fmt.Sprintf("https://dev.to/yrizos/post-%d", i),
			"&lt;p&gt;Body.&lt;/p&gt;",
		)
	}

	server := testServer(t, feedXML(items))
	opts, _ := testOptions(t, server)

	summary, err := New(opts).Run(context.Background(), devtoSource(server))

	if err != nil {
		t.Fatalf("Expected malformed entry to be skipped, not fatal, got: %v", err)
	}
	if summary.Imported != 4 {
		t.Errorf("Expected 4 imported, got: %+v", summary)
	}
	if summary.Failed != 1 {
		t.Errorf("Expected 1 failed, got: %+v", summary)
	}
	if got := countFiles(t, opts.ContentDir); got != 4 {
		t.Errorf("Expected 4 files, got: %d", got)
	}
}

func TestRunAllContinuesAfterSourceFailure(t *testing.T) {
	doc := feedXML(feedItem("Good Post", "https://dev.to/yrizos/good-post", "&lt;p&gt;ok&lt;/p&gt;"))
	server := testServer(t, doc)
	opts, _ := testOptions(t, server)

	good := devtoSource(server)
	bad := devtoSource(server)
	bad.Name = "broken"
	bad.URL = server.URL + "/missing"

	summaries, err := New(opts).RunAll(context.Background(), []sources.Source{bad, good}, 2)

	if err == nil {
		t.Fatal("Expected combined error when a source fails")
	}

	imported := 0
	for _, summary := range summaries {
		imported += summary.Imported
	}
	if imported != 1 {
		t.Errorf("Expected the healthy source to import 1 post, got summaries: %+v", summaries)
	}
}

func TestRunAllSkipsDisabledSources(t *testing.T) {
	doc := feedXML(feedItem("Good Post", "https://dev.to/yrizos/good-post", "&lt;p&gt;ok&lt;/p&gt;"))
	server := testServer(t, doc)
	opts, _ := testOptions(t, server)

	disabled := devtoSource(server)
	disabled.Disabled = true

	summaries, err := New(opts).RunAll(context.Background(), []sources.Source{disabled}, 2)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected no summaries for disabled sources, got: %+v", summaries)
	}
	if got := countFiles(t, opts.ContentDir); got != 0 {
		t.Errorf("Expected zero files, got: %d", got)
	}
}

func TestUnknownSourceKind(t *testing.T) {
	server := testServer(t, feedXML(""))
	opts, _ := testOptions(t, server)

	src := sources.Source{Name: "weird", Kind: "tumblr", URL: server.URL + "/feed"}
	_, err := New(opts).Run(context.Background(), src)

	var unknownErr *UnknownSourceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected UnknownSourceError, got: %v", err)
	}
}

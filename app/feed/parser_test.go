package feed

import (
	"errors"
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>en-us</language>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>test@example.com (Test Author)</author>
      <category>Technology</category>
      <category>Programming</category>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <guid>item-2</guid>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	metadata, entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", metadata.Title)
	}
	if metadata.Link != "https://example.com" {
		t.Errorf("Expected link 'https://example.com', got: %s", metadata.Link)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	// Feed order must be preserved
	if entries[0].Title != "Test Item 1" {
		t.Errorf("Expected first entry 'Test Item 1', got: %s", entries[0].Title)
	}
	if entries[1].Title != "Test Item 2" {
		t.Errorf("Expected second entry 'Test Item 2', got: %s", entries[1].Title)
	}

	entry := entries[0]
	if entry.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", entry.Link)
	}
	if entry.PublishedAt == nil {
		t.Error("Expected published date to be parsed")
	}
	if len(entry.Categories) != 2 {
		t.Errorf("Expected 2 categories, got: %d", len(entry.Categories))
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <author>
      <name>Test Author</name>
    </author>
    <content type="html">&lt;p&gt;Test content&lt;/p&gt;</content>
  </entry>
</feed>`

	parser := NewParser()
	metadata, entries, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Atom Feed" {
		t.Errorf("Expected title 'Test Atom Feed', got: %s", metadata.Title)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	if entries[0].Content == "" {
		t.Error("Expected entry content to be populated")
	}
	if len(entries[0].Authors) != 1 || entries[0].Authors[0] != "Test Author" {
		t.Errorf("Expected authors ['Test Author'], got: %v", entries[0].Authors)
	}
}

func TestParseGoodreadsCustomElements(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Yannis's bookshelf: read</title>
    <link>https://www.goodreads.com</link>
    <item>
      <title>The Left Hand of Darkness</title>
      <link>https://www.goodreads.com/review/show/123456</link>
      <pubDate>Sat, 14 Jun 2025 08:00:00 +0000</pubDate>
      <author_name>Ursula K. Le Guin</author_name>
      <isbn>0441478123</isbn>
      <user_rating>5</user_rating>
      <user_shelves>sci-fi, favorites</user_shelves>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	_, entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Custom["author_name"] != "Ursula K. Le Guin" {
		t.Errorf("Expected author_name custom element, got: %v", entry.Custom)
	}
	if entry.Custom["user_rating"] != "5" {
		t.Errorf("Expected user_rating '5', got: %s", entry.Custom["user_rating"])
	}
}

func TestParseInvalidXML(t *testing.T) {
	truncated := `<?xml version="1.0"?><rss version="2.0"><channel><title>Broken`

	parser := NewParser()
	_, _, err := parser.Run([]byte(truncated))

	if err == nil {
		t.Fatal("Expected error for truncated XML")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Expected ParseError, got: %T", err)
	}
}

func TestParseEmptyFeed(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Empty Feed</title>
    <link>https://example.com</link>
  </channel>
</rss>`

	parser := NewParser()
	_, entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got: %d", len(entries))
	}
}

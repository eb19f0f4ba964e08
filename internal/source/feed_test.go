package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example Jobs</title>
<item>
<title>Go Developer</title>
<link>https://example.com/jobs/go</link>
<description>Backend role in a small team</description>
<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
<category>golang</category>
<category>backend</category>
</item>
<item>
<description>entry without title or link</description>
</item>
</channel>
</rss>`

func TestNewFeedValidation(t *testing.T) {
	if _, err := NewFeed(Descriptor{Type: TypeFeed, URL: "https://example.com/feed"}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := NewFeed(Descriptor{Type: TypeFeed, Name: "jobs"}); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestFeedFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	fs, err := NewFeed(Descriptor{Name: "Example Jobs", Type: TypeFeed, URL: srv.URL})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	postings, err := fs.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotUA != feedUserAgent {
		t.Errorf("user agent = %q, want %q", gotUA, feedUserAgent)
	}
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}

	first := postings[0]
	if first.Title != "Go Developer" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Link != "https://example.com/jobs/go" {
		t.Errorf("link = %q", first.Link)
	}
	if first.Source != "Example Jobs" {
		t.Errorf("source = %q", first.Source)
	}
	if first.Tags != "golang, backend" {
		t.Errorf("tags = %q", first.Tags)
	}
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if !first.Published.Equal(want) {
		t.Errorf("published = %v, want %v", first.Published, want)
	}

	// Entries without title or link are still emitted; rejection is the
	// filters' job.
	second := postings[1]
	if second.Title != "" || second.Link != "" {
		t.Errorf("expected empty title and link, got %q / %q", second.Title, second.Link)
	}
	if !second.Published.IsZero() {
		t.Errorf("expected zero published time, got %v", second.Published)
	}
}

func TestFeedFetch_MalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	fs, err := NewFeed(Descriptor{Name: "broken", Type: TypeFeed, URL: srv.URL})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	if _, err := fs.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestFeedFetch_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	fs, err := NewFeed(Descriptor{Name: "gone", Type: TypeFeed, URL: srv.URL})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	if _, err := fs.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	feedFetchTimeout = 30 * time.Second
	feedUserAgent    = "Mozilla/5.0 (compatible; JobBot/1.0)"
)

// FeedSource fetches postings from an RSS/Atom feed.
type FeedSource struct {
	descriptor Descriptor
	client     *http.Client
}

// NewFeed creates a feed source from a descriptor. Name and URL are required.
func NewFeed(d Descriptor) (*FeedSource, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, errors.New("feed: source name is required")
	}
	if strings.TrimSpace(d.URL) == "" {
		return nil, errors.New("feed: url is required")
	}
	ua := d.UserAgent
	if ua == "" {
		ua = feedUserAgent
	}
	return &FeedSource{
		descriptor: d,
		client: &http.Client{
			Timeout:   feedFetchTimeout,
			Transport: &uaTransport{agent: ua, base: http.DefaultTransport},
		},
	}, nil
}

func (f *FeedSource) Name() string {
	return f.descriptor.Name
}

// Fetch retrieves and parses the feed. Entries missing a title or link are
// still emitted with empty fields; the filters decide what to keep.
func (f *FeedSource) Fetch(ctx context.Context) ([]Posting, error) {
	ctx, cancel := context.WithTimeout(ctx, feedFetchTimeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(f.descriptor.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.descriptor.URL, err)
	}

	postings := make([]Posting, 0, len(feed.Items))
	for _, item := range feed.Items {
		postings = append(postings, Posting{
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			Source:      f.descriptor.Name,
			Tags:        strings.Join(item.Categories, ", "),
			Published:   itemPublishedTime(item),
		})
	}
	return postings, nil
}

func itemPublishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// uaTransport injects a User-Agent header into every request.
type uaTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(req)
}

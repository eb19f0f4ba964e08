// Package source defines the posting data model and the fetchers that
// produce postings from configured feeds and pages.
package source

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Source descriptor types.
const (
	TypeFeed   = "feed"
	TypeMarkup = "markup"
)

// Posting is a single job posting as emitted by a fetcher. Fields that a
// source does not provide stay empty; validation happens in the filters,
// not at fetch time.
type Posting struct {
	Title       string
	Description string
	Link        string
	Source      string // name of the originating feed/site
	Location    string
	Company     string
	Tags        string
	Published   time.Time // zero when the source carries no date
}

// Fingerprint returns the deduplication key for the posting. Two postings
// with the same title, link, and source are the same real-world posting
// regardless of other field differences.
func (p Posting) Fingerprint() string {
	sum := md5.Sum([]byte(p.Title + "|" + p.Link + "|" + p.Source))
	return hex.EncodeToString(sum[:])
}

// Selectors configures where the markup fetcher finds posting fields
// within a page. Empty fields fall back to the defaults in markup.go.
type Selectors struct {
	Container   string `yaml:"container"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Company     string `yaml:"company"`
	Location    string `yaml:"location"`
}

// Descriptor describes one configured source. It is supplied by config and
// read-only to the pipeline.
type Descriptor struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"` // "feed" or "markup"
	URL       string    `yaml:"url"`
	UserAgent string    `yaml:"user_agent"`
	Selectors Selectors `yaml:"selectors"`
}

// Source fetches raw postings from one configured origin.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Posting, error)
}

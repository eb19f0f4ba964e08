// Package monitor sequences the pipeline: fetch sources, filter and
// persist postings, and deliver the digest of undelivered postings.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sdumal/JobParserEzh/internal/digest"
	"github.com/sdumal/JobParserEzh/internal/filter"
	"github.com/sdumal/JobParserEzh/internal/source"
	"github.com/sdumal/JobParserEzh/internal/store"
)

// DefaultLookback is the age window for postings included in a report.
const DefaultLookback = 24 * time.Hour

// Store is the persistence the monitor needs.
type Store interface {
	Insert(ctx context.Context, p source.Posting) (bool, error)
	Undelivered(ctx context.Context, maxAge time.Duration) ([]store.Job, error)
	MarkDelivered(ctx context.Context, fingerprints []string) error
}

// Delivery sends composed text to the messaging endpoint.
type Delivery interface {
	Send(text string) error
	SendDigest(text string) error
}

// Monitor owns one pipeline configuration. Scan and Report are its only
// entry points; the calling cadence is the driver's business.
type Monitor struct {
	sources   []source.Source
	keywords  *filter.Keyword
	locations *filter.Location
	store     Store
	delivery  Delivery
	opts      digest.Options
	lookback  time.Duration

	// now is stubbed in tests.
	now func() time.Time
}

// New creates a monitor over the given sources, filters, store, and
// delivery client.
func New(st Store, delivery Delivery, sources []source.Source, keywords *filter.Keyword, locations *filter.Location, opts digest.Options) *Monitor {
	return &Monitor{
		sources:   sources,
		keywords:  keywords,
		locations: locations,
		store:     st,
		delivery:  delivery,
		opts:      opts,
		lookback:  DefaultLookback,
		now:       time.Now,
	}
}

// Scan fetches every source in order, filters each raw posting, and
// persists the ones that pass. A failing source is logged and skipped; it
// never aborts the scan. The returned stats belong to this run only.
func (m *Monitor) Scan(ctx context.Context) digest.Stats {
	stats := digest.Stats{StartTime: m.now()}

	for _, src := range m.sources {
		postings, err := src.Fetch(ctx)
		if err != nil {
			log.Printf("WARN: fetch %s: %v", src.Name(), err)
			continue
		}

		for _, p := range postings {
			stats.Viewed++

			if !m.keywords.Matches(p) || !m.locations.Allowed(p) {
				continue
			}

			added, err := m.store.Insert(ctx, p)
			if err != nil {
				log.Printf("WARN: insert %q from %s: %v", p.Title, src.Name(), err)
				continue
			}
			if added {
				stats.Added++
			}
		}

		log.Printf("scanned %s: %d postings", src.Name(), len(postings))
	}

	return stats
}

// Report queries undelivered postings within the lookback window, composes
// and delivers the digest, and marks the included postings delivered only
// after every part of the send succeeded. A crash between send and mark
// causes redelivery, never silent loss.
func (m *Monitor) Report(ctx context.Context, stats digest.Stats) error {
	jobs, err := m.store.Undelivered(ctx, m.lookback)
	if err != nil {
		return fmt.Errorf("query undelivered: %w", err)
	}

	if len(jobs) == 0 {
		if err := m.delivery.Send(digest.EmptyMessage); err != nil {
			return fmt.Errorf("send empty report: %w", err)
		}
		return nil
	}

	text := digest.Compose(jobs, stats, m.opts)
	if err := m.delivery.SendDigest(text); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	fingerprints := make([]string, len(jobs))
	for i, job := range jobs {
		fingerprints[i] = job.Fingerprint
	}
	if err := m.store.MarkDelivered(ctx, fingerprints); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}

	log.Printf("digest sent: %d postings", len(jobs))
	return nil
}

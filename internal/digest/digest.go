// Package digest composes the human-readable posting digest. It produces
// one logical string under the message budget; splitting an oversized
// digest for transport is the delivery client's concern.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/sdumal/JobParserEzh/internal/store"
)

const (
	maxMessageLength = 4096
	lengthMargin     = 200 // reserved for framing and part headers

	descPreviewLen = 100
)

// EmptyMessage is the canned digest for a run with no undelivered postings.
const EmptyMessage = "📋 No new postings found in the last 24 hours."

const truncatedMarker = "📝 *Digest truncated to fit the message limit*"

// Options controls digest rendering.
type Options struct {
	MaxJobsPerSource   int
	ShowStats          bool
	ShowCompany        bool
	ShowLocation       bool
	IncludeDescription bool
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		MaxJobsPerSource:   10,
		ShowStats:          true,
		ShowCompany:        true,
		ShowLocation:       true,
		IncludeDescription: false,
	}
}

// Stats carries the counters of one pipeline run. It is created by the
// orchestrator at scan start and discarded when the run ends.
type Stats struct {
	Viewed    int // raw postings seen across all sources
	Added     int // postings newly persisted
	StartTime time.Time
}

// Compose renders jobs into one digest string, grouped by source in order
// of first appearance, keeping the total under the message budget. Output
// depends only on the inputs, never on the clock.
func Compose(jobs []store.Job, stats Stats, opts Options) string {
	if len(jobs) == 0 {
		return EmptyMessage
	}

	header := fmt.Sprintf("📊 *Job digest for %s*\n\n", stats.StartTime.Format("02.01.2006"))
	if opts.ShowStats {
		header += fmt.Sprintf(
			"🔍 Viewed: %d %s\n➕ Newly added: %d\n📤 In this digest: %d\n⏰ Run started: %s\n\n%s\n\n",
			stats.Viewed,
			postings(stats.Viewed),
			stats.Added,
			len(jobs),
			stats.StartTime.Format("15:04:05"),
			strings.Repeat("━", 32),
		)
	}

	order, groups := groupBySource(jobs)

	var b strings.Builder
	b.WriteString(header)

	budget := maxMessageLength - lengthMargin
	truncated := false

	for _, src := range order {
		sourceJobs := groups[src]
		section := fmt.Sprintf("📂 *%s* (%d %s)\n", src, len(sourceJobs), postings(len(sourceJobs)))

		display := sourceJobs
		if opts.MaxJobsPerSource > 0 && len(display) > opts.MaxJobsPerSource {
			display = display[:opts.MaxJobsPerSource]
		}

		for i, job := range display {
			line := renderLine(i+1, job, opts)
			if b.Len()+len(section)+len(line) > budget {
				rest := len(sourceJobs) - i
				section += fmt.Sprintf("   ...and %d more %s\n", rest, postings(rest))
				truncated = true
				break
			}
			section += line
		}

		if hidden := len(sourceJobs) - len(display); hidden > 0 {
			section += fmt.Sprintf("   ...and %d more %s\n", hidden, postings(hidden))
		}

		section += "\n"
		b.WriteString(section)

		if truncated || b.Len() > budget {
			b.WriteString(truncatedMarker)
			break
		}
	}

	return b.String()
}

func postings(n int) string {
	if n == 1 {
		return "posting"
	}
	return "postings"
}

func groupBySource(jobs []store.Job) ([]string, map[string][]store.Job) {
	var order []string
	groups := make(map[string][]store.Job)
	for _, job := range jobs {
		if _, seen := groups[job.Source]; !seen {
			order = append(order, job.Source)
		}
		groups[job.Source] = append(groups[job.Source], job)
	}
	return order, groups
}

func renderLine(index int, job store.Job, opts Options) string {
	line := fmt.Sprintf("%d. [%s](%s)", index, job.Title, job.Link)
	if opts.ShowLocation && job.Location != "" {
		line += " 🌍 " + job.Location
	}
	if opts.ShowCompany && job.Company != "" {
		line += " 🏢 " + job.Company
	}
	line += "\n"

	if opts.IncludeDescription && job.Description != "" {
		line += fmt.Sprintf("   _%s_\n", preview(job.Description, descPreviewLen))
	}

	return line
}

// preview truncates s to n runes, appending an ellipsis when cut.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

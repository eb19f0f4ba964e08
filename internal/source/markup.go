package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Default selectors target DOU-style listing markup.
const (
	defaultContainerSelector   = ".vacancy"
	defaultTitleSelector       = "div.title a.vt"
	defaultDescriptionSelector = "div.sh-info"
	defaultLocationSelector    = "span.cities"

	markupFetchTimeout = 30 * time.Second

	companySeparator = "—"
)

// MarkupSource fetches postings by scraping an HTML listing page with the
// descriptor's selectors.
type MarkupSource struct {
	descriptor Descriptor
	client     *http.Client
}

// NewMarkup creates a markup source from a descriptor. Name and URL are
// required; missing selectors fall back to the defaults above.
func NewMarkup(d Descriptor) (*MarkupSource, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, errors.New("markup: source name is required")
	}
	if strings.TrimSpace(d.URL) == "" {
		return nil, errors.New("markup: url is required")
	}
	if d.UserAgent == "" {
		d.UserAgent = feedUserAgent
	}
	if d.Selectors.Container == "" {
		d.Selectors.Container = defaultContainerSelector
	}
	if d.Selectors.Title == "" {
		d.Selectors.Title = defaultTitleSelector
	}
	if d.Selectors.Description == "" {
		d.Selectors.Description = defaultDescriptionSelector
	}
	if d.Selectors.Location == "" {
		d.Selectors.Location = defaultLocationSelector
	}
	return &MarkupSource{
		descriptor: d,
		client:     &http.Client{Timeout: markupFetchTimeout},
	}, nil
}

func (m *MarkupSource) Name() string {
	return m.descriptor.Name
}

// Fetch retrieves the page and extracts one posting per container element.
// Containers without a title/link element are skipped, never an error.
func (m *MarkupSource) Fetch(ctx context.Context) ([]Posting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.descriptor.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", m.descriptor.URL, err)
	}
	req.Header.Set("User-Agent", m.descriptor.UserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", m.descriptor.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", m.descriptor.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", m.descriptor.URL, err)
	}

	base, err := url.Parse(m.descriptor.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", m.descriptor.URL, err)
	}

	sel := m.descriptor.Selectors
	var postings []Posting

	doc.Find(sel.Container).Each(func(_ int, container *goquery.Selection) {
		title := container.Find(sel.Title).First()
		if title.Length() == 0 {
			return
		}

		href, ok := title.Attr("href")
		if !ok {
			return
		}

		description := ""
		if desc := container.Find(sel.Description).First(); desc.Length() > 0 {
			description = strings.TrimSpace(desc.Text())
		}

		location := ""
		if loc := container.Find(sel.Location).First(); loc.Length() > 0 {
			location = strings.TrimSpace(loc.Text())
		}

		postings = append(postings, Posting{
			Title:       strings.TrimSpace(title.Text()),
			Description: description,
			Link:        resolveLink(base, href),
			Source:      m.descriptor.Name,
			Location:    location,
			Company:     m.companyText(container, description),
		})
	})

	return postings, nil
}

// companyText extracts the company name: from the company selector when one
// is configured, otherwise from the description text before the separator.
func (m *MarkupSource) companyText(container *goquery.Selection, description string) string {
	if sel := m.descriptor.Selectors.Company; sel != "" {
		if company := container.Find(sel).First(); company.Length() > 0 {
			return strings.TrimSpace(company.Text())
		}
		return ""
	}
	if description == "" {
		return ""
	}
	company, _, _ := strings.Cut(description, companySeparator)
	return strings.TrimSpace(company)
}

func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

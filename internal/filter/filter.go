// Package filter holds the relevance filters applied to postings before
// they are persisted. Matching is literal substring containment on
// case-folded text; both filters fail closed on empty input.
package filter

import (
	"strings"

	"github.com/sdumal/JobParserEzh/internal/source"
)

// Keyword matches postings whose text contains any configured keyword.
type Keyword struct {
	keywords []string
}

// NewKeyword creates a keyword filter. Keywords are case-folded once at
// construction.
func NewKeyword(keywords []string) *Keyword {
	folded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		folded = append(folded, strings.ToLower(kw))
	}
	return &Keyword{keywords: folded}
}

// Matches reports whether any keyword is a substring of the posting's
// title, description, or tags. An empty keyword set matches nothing.
func (f *Keyword) Matches(p source.Posting) bool {
	text := strings.ToLower(p.Title + " " + p.Description + " " + p.Tags)
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Location matches postings whose location contains any allowed substring.
type Location struct {
	allowed []string
}

// NewLocation creates a location filter from the allow-list.
func NewLocation(allowed []string) *Location {
	folded := make([]string, 0, len(allowed))
	for _, loc := range allowed {
		folded = append(folded, strings.ToLower(loc))
	}
	return &Location{allowed: folded}
}

// Allowed reports whether the posting's location contains any allowed
// substring. A posting without a location never matches.
func (f *Location) Allowed(p source.Posting) bool {
	location := strings.ToLower(p.Location)
	if location == "" {
		return false
	}
	for _, allowed := range f.allowed {
		if strings.Contains(location, allowed) {
			return true
		}
	}
	return false
}

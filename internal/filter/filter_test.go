package filter

import (
	"testing"

	"github.com/sdumal/JobParserEzh/internal/source"
)

func TestKeywordMatches(t *testing.T) {
	f := NewKeyword([]string{"Golang", "backend"})

	tests := []struct {
		name    string
		posting source.Posting
		want    bool
	}{
		{"title match", source.Posting{Title: "Senior Golang Developer"}, true},
		{"case folded", source.Posting{Title: "GOLANG developer"}, true},
		{"description match", source.Posting{Title: "Developer", Description: "strong backend experience"}, true},
		{"tags match", source.Posting{Title: "Developer", Tags: "remote, golang"}, true},
		{"substring inside word", source.Posting{Title: "backender wanted"}, true},
		{"no match", source.Posting{Title: "Frontend Designer", Description: "css"}, false},
		{"empty posting", source.Posting{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Matches(tt.posting); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeywordEmptySetMatchesNothing(t *testing.T) {
	f := NewKeyword(nil)

	if f.Matches(source.Posting{Title: "Golang Developer", Description: "anything"}) {
		t.Fatal("empty keyword set must reject every posting")
	}
}

func TestLocationAllowed(t *testing.T) {
	f := NewLocation([]string{"Gdansk", "remote", "poland"})

	tests := []struct {
		name    string
		posting source.Posting
		want    bool
	}{
		{"exact", source.Posting{Location: "Gdansk"}, true},
		{"case folded", source.Posting{Location: "GDANSK"}, true},
		{"substring", source.Posting{Location: "Warsaw or remote"}, true},
		{"other city", source.Posting{Location: "Berlin"}, false},
		{"empty location", source.Posting{Title: "Go Developer"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Allowed(tt.posting); got != tt.want {
				t.Errorf("Allowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocationEmptyFieldNeverMatches(t *testing.T) {
	// Even a permissive allow-list rejects a posting without a location.
	f := NewLocation([]string{""})

	if f.Allowed(source.Posting{Location: ""}) {
		t.Fatal("empty location must never match")
	}
}

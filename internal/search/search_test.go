package search

import (
	"testing"

	"github.com/nikbrunner/nav/internal/model"
)

func sampleLinks() []model.Link {
	return []model.Link{
		{ID: "1", Title: "The Go Programming Language", URL: "https://go.dev", Tags: []string{"lang"}},
		{ID: "2", Title: "GitHub", URL: "https://github.com", Description: "Code hosting"},
		{ID: "3", Title: "Hacker News", URL: "https://news.ycombinator.com", Tags: []string{"reading"}},
	}
}

func TestFilter_MatchesAcrossFields(t *testing.T) {
	links := sampleLinks()

	cases := []struct {
		query string
		want  []string
	}{
		{"go", []string{"1"}},
		{"HOSTING", []string{"2"}},
		{"ycombinator", []string{"3"}},
		{"reading", []string{"3"}},
		{"nothing-here", nil},
	}
	for _, tc := range cases {
		got := Filter(links, tc.query)
		if len(got) != len(tc.want) {
			t.Errorf("Filter(%q) returned %d links, want %d", tc.query, len(got), len(tc.want))
			continue
		}
		for i, link := range got {
			if link.ID != tc.want[i] {
				t.Errorf("Filter(%q)[%d] = link %s, want %s", tc.query, i, link.ID, tc.want[i])
			}
		}
	}
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	links := sampleLinks()
	got := Filter(links, "")
	if len(got) != len(links) {
		t.Errorf("empty query returned %d links, want %d", len(got), len(links))
	}
}

func TestFuzzy_RanksTitleMatches(t *testing.T) {
	results := Fuzzy(sampleLinks(), "gpl")
	if len(results) == 0 {
		t.Fatalf("no fuzzy match for 'gpl'")
	}
	if results[0].Link.ID != "1" {
		t.Errorf("best match = link %s, want 1", results[0].Link.ID)
	}
	if len(results[0].MatchedIndexes) != 3 {
		t.Errorf("matched %d indexes, want 3", len(results[0].MatchedIndexes))
	}
}

func TestFuzzy_EmptyQuery(t *testing.T) {
	if results := Fuzzy(sampleLinks(), ""); results != nil {
		t.Errorf("empty query returned %d results", len(results))
	}
}

// Package search filters links: substring matching across all display
// fields, and fuzzy matching by title.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/nav/internal/model"
)

// Result represents a fuzzy search match.
type Result struct {
	Link           *model.Link
	MatchedIndexes []int
	Score          int
}

// linkTitles implements fuzzy.Source for a link slice.
type linkTitles []*model.Link

func (lt linkTitles) String(i int) string {
	return lt[i].Title
}

func (lt linkTitles) Len() int {
	return len(lt)
}

// Fuzzy searches links by title using fuzzy matching.
// Returns results sorted by match score (best first).
func Fuzzy(links []model.Link, query string) []Result {
	if query == "" {
		return nil
	}

	candidates := make(linkTitles, len(links))
	for i := range links {
		candidates[i] = &links[i]
	}

	matches := fuzzy.FindFrom(query, candidates)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Link:           candidates[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Filter returns links whose title, description, URL or tags contain the
// query, case-insensitively. An empty query matches everything.
func Filter(links []model.Link, query string) []model.Link {
	if query == "" {
		return links
	}
	query = strings.ToLower(query)

	var result []model.Link
	for _, link := range links {
		if matches(link, query) {
			result = append(result, link)
		}
	}
	return result
}

func matches(link model.Link, query string) bool {
	if strings.Contains(strings.ToLower(link.Title), query) ||
		strings.Contains(strings.ToLower(link.Description), query) ||
		strings.Contains(strings.ToLower(link.URL), query) {
		return true
	}
	for _, tag := range link.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

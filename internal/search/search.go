// Package search implements the quick search behind `bmcat <query>`.
package search

import (
	"strings"

	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Bookmark       *model.Bookmark
	Label          string // text the match was made against, see Label
	MatchedIndexes []int  // byte offsets into Label
	Score          int
}

// Label returns the text a bookmark is searched and shown by: its title, or
// the URL without its scheme for untitled bookmarks.
func Label(b model.Bookmark) string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if _, rest, ok := strings.Cut(b.URL, "://"); ok {
		return rest
	}
	return b.URL
}

// FuzzySearchBookmarks searches bookmarks by label using fuzzy matching.
// Returns results sorted by match score (best first). Each result points
// into the bookmarks slice.
func FuzzySearchBookmarks(bookmarks []model.Bookmark, query string) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	labels := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		labels[i] = Label(b)
	}

	matches := fuzzy.Find(query, labels)
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Bookmark:       &bookmarks[m.Index],
			Label:          m.Str,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return results
}

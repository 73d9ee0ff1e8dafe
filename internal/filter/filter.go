// Package filter decides which bookmark rows are visible.
//
// State is an explicit snapshot of the rendered rows, so visibility can be
// computed without any display surface. The text and category predicates are
// not composed: each call recomputes every row from scratch, so the last
// predicate applied wins.
package filter

import (
	"strings"

	"github.com/nikbrunner/bmcat/internal/model"
)

// Row is one rendered bookmark.
type Row struct {
	ID       string
	Title    string
	URL      string
	Category string // current value of the row's category control, "" = none
	Visible  bool
}

// State holds the rendered rows in display order.
type State struct {
	Rows []Row
}

// NewState creates a State with one visible row per bookmark.
func NewState(bookmarks []model.Bookmark) State {
	rows := make([]Row, len(bookmarks))
	for i, b := range bookmarks {
		rows[i] = Row{ID: b.ID, Title: b.Title, URL: b.URL, Visible: true}
	}
	return State{Rows: rows}
}

// ByText shows rows whose title contains query, case-insensitively.
// An empty query shows every row.
func (s *State) ByText(query string) {
	query = strings.ToLower(query)
	for i := range s.Rows {
		s.Rows[i].Visible = strings.Contains(strings.ToLower(s.Rows[i].Title), query)
	}
}

// ByCategory shows rows whose stored assignment equals category.
// model.AllCategory shows every row.
func (s *State) ByCategory(category string, assignments model.Assignments) {
	for i := range s.Rows {
		s.Rows[i].Visible = assignments.Matches(s.Rows[i].ID, category)
	}
}

// SetAssignments updates the category control of every row with an entry.
// Rows without an entry keep their current value.
func (s *State) SetAssignments(assignments model.Assignments) {
	for i := range s.Rows {
		if category, ok := assignments.CategoryOf(s.Rows[i].ID); ok {
			s.Rows[i].Category = category
		}
	}
}

// SetCategory updates the category control of the row with the given ID.
func (s *State) SetCategory(id, category string) bool {
	if row := s.Row(id); row != nil {
		row.Category = category
		return true
	}
	return false
}

// Row returns the row with the given ID, nil if not found.
func (s *State) Row(id string) *Row {
	for i := range s.Rows {
		if s.Rows[i].ID == id {
			return &s.Rows[i]
		}
	}
	return nil
}

// Visible returns the visible rows in display order.
func (s *State) Visible() []Row {
	result := []Row{}
	for _, r := range s.Rows {
		if r.Visible {
			result = append(result, r)
		}
	}
	return result
}

// VisibleBookmarks returns the visible rows as bookmarks, in display order.
func (s *State) VisibleBookmarks() []model.Bookmark {
	result := []model.Bookmark{}
	for _, r := range s.Rows {
		if r.Visible {
			result = append(result, model.Bookmark{ID: r.ID, Title: r.Title, URL: r.URL})
		}
	}
	return result
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bmcat/internal/model"
)

// loadedMsg carries the startup reads. Each err is the failure of that read;
// the matching value is empty in that case.
type loadedMsg struct {
	bookmarks      []model.Bookmark
	categories     model.Categories
	assignments    model.Assignments
	bookmarksErr   error
	categoriesErr  error
	assignmentsErr error
}

// categoriesLoadedMsg is sent after a category add and reload.
type categoriesLoadedMsg struct {
	categories model.Categories
	addErr     error
	listErr    error
}

// categoryFilterMsg is sent when fresh assignments for a category filter arrive.
type categoryFilterMsg struct {
	category    string
	assignments model.Assignments
	err         error
}

// assignedMsg reports the result of persisting one assignment.
type assignedMsg struct {
	bookmarkID string
	category   string
	err        error
}

// urlActionMsg reports a failed open or copy.
type urlActionMsg struct {
	action string
	url    string
	err    error
}

// loadCmd reads bookmarks, then categories, then assignments.
func (a App) loadCmd() tea.Cmd {
	ctx := a.ctx
	bookmarks, categories, assignments := a.bookmarks, a.categories, a.assignments
	return func() tea.Msg {
		var msg loadedMsg
		msg.bookmarks, msg.bookmarksErr = bookmarks.ListBookmarks(ctx)
		msg.categories, msg.categoriesErr = categories.List(ctx)
		msg.assignments, msg.assignmentsErr = assignments.Load(ctx)
		return msg
	}
}

// addCategoryCmd adds label and reloads the registry. The reload is skipped
// when the add fails.
func (a App) addCategoryCmd(label string) tea.Cmd {
	ctx := a.ctx
	categories := a.categories
	return func() tea.Msg {
		if err := categories.Add(ctx, label); err != nil {
			return categoriesLoadedMsg{addErr: err}
		}
		list, err := categories.List(ctx)
		return categoriesLoadedMsg{categories: list, listErr: err}
	}
}

// categoryFilterCmd re-reads the stored assignments before filtering.
func (a App) categoryFilterCmd(category string) tea.Cmd {
	ctx := a.ctx
	assignments := a.assignments
	return func() tea.Msg {
		m, err := assignments.Load(ctx)
		return categoryFilterMsg{category: category, assignments: m, err: err}
	}
}

// assignCmd persists one assignment.
func (a App) assignCmd(bookmarkID, category string) tea.Cmd {
	ctx := a.ctx
	assignments := a.assignments
	return func() tea.Msg {
		err := assignments.Assign(ctx, bookmarkID, category)
		return assignedMsg{bookmarkID: bookmarkID, category: category, err: err}
	}
}

// urlCmd runs fn on url off the update loop.
func urlCmd(action, url string, fn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(url); err != nil {
			return urlActionMsg{action: action, url: url, err: err}
		}
		return nil
	}
}

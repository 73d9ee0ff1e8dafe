package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/search"
	"github.com/nikbrunner/bmcat/internal/tui/layout"
)

func testResults() []search.SearchResult {
	return []search.SearchResult{
		{Bookmark: &model.Bookmark{ID: "b1", Title: "GitHub", URL: "https://github.com"}, Label: "GitHub", MatchedIndexes: []int{0, 1, 2}},
		{Bookmark: &model.Bookmark{ID: "b2", Title: "GitLab", URL: "https://gitlab.com"}, Label: "GitLab", MatchedIndexes: []int{0, 1, 2}},
	}
}

func TestPicker_InitialState(t *testing.T) {
	p := New(testResults(), "git", nil)

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDownUp(t *testing.T) {
	p := New(testResults(), "git", nil)

	newModel, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	p = newModel.(Picker)
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}

	newModel, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	results := testResults()[:1]
	p := New(results, "git", nil)

	// Try to go up from 0 (should stay at 0)
	newModel, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	// Try to go down from last (should stay at last)
	newModel, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(testResults(), "git", nil)
	p.cursor = 1

	newModel, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = newModel.(Picker)

	if !p.selected {
		t.Error("expected selected to be true after Enter")
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
	if got := p.SelectedBookmark(); got == nil || got.ID != "b2" {
		t.Errorf("expected GitLab to be selected, got %v", got)
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(testResults(), "git", nil)

	newModel, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	p = newModel.(Picker)

	if !p.Cancelled() {
		t.Error("expected cancelled to be true after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if p.SelectedBookmark() != nil {
		t.Error("expected nil when cancelled")
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p := New(testResults(), "git", nil)

	newModel, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p = newModel.(Picker)
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	newModel, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_ViewShowsCategory(t *testing.T) {
	p := New(testResults(), "git", model.Assignments{"b1": "Work"})

	view := p.View()
	if !strings.Contains(view, "[Work]") {
		t.Errorf("expected category tag in view, got:\n%s", view)
	}
	if strings.Count(view, "[") != 1 {
		t.Error("uncategorized results should have no tag")
	}
}

func TestPicker_ViewShowsLabels(t *testing.T) {
	results := []search.SearchResult{
		{Bookmark: &model.Bookmark{ID: "b3", URL: "https://codeberg.org"}, Label: "codeberg.org", MatchedIndexes: []int{0, 1}},
	}
	view := New(results, "co", nil).View()

	if !strings.Contains(layout.StripANSI(view), "codeberg.org") {
		t.Errorf("expected label in view, got:\n%s", view)
	}
}

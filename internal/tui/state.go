package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/tui/layout"
)

// Mode is the current input mode of the App.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeAddCategory
	ModeSelectCategory
)

// Pane identifies a focusable pane.
type Pane int

const (
	PaneCategories Pane = iota
	PaneBookmarks
)

// NoCategoryOption is the first option of every category control. Choosing it
// stores an empty label, which reads back as uncategorized.
const NoCategoryOption = "Select category"

// SelectorState holds the category control opened for one bookmark.
type SelectorState struct {
	BookmarkID string
	Options    []string // NoCategoryOption followed by the registry snapshot
	Idx        int
}

// NewSelectorState builds the control for bookmarkID, pre-selecting current.
// A current value not in categories leaves the placeholder selected.
func NewSelectorState(bookmarkID, current string, categories model.Categories) SelectorState {
	options := make([]string, 0, len(categories)+1)
	options = append(options, NoCategoryOption)
	options = append(options, categories...)

	idx := 0
	for i, c := range categories {
		if c == current {
			idx = i + 1
			break
		}
	}

	return SelectorState{
		BookmarkID: bookmarkID,
		Options:    options,
		Idx:        idx,
	}
}

// Selected returns the label stored for the selected option.
func (s SelectorState) Selected() string {
	if s.Idx <= 0 || s.Idx >= len(s.Options) {
		return ""
	}
	return s.Options[s.Idx]
}

// InputState holds the text inputs of the App.
type InputState struct {
	Filter   textinput.Model // Title filter, re-applied on every keystroke
	Category textinput.Model // New category label
}

// NewInputState creates the text inputs.
func NewInputState(cfg layout.LayoutConfig) InputState {
	filterInput := textinput.New()
	filterInput.Placeholder = "Search bookmarks..."
	filterInput.CharLimit = cfg.Input.SearchCharLimit
	filterInput.Width = cfg.Input.SearchWidth

	categoryInput := textinput.New()
	categoryInput.Placeholder = "Category name"
	categoryInput.CharLimit = cfg.Input.CategoryCharLimit
	categoryInput.Width = cfg.Input.CategoryWidth

	return InputState{
		Filter:   filterInput,
		Category: categoryInput,
	}
}

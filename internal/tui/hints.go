package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move tab:pane enter:filter"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, tab)
	Edit   []Hint // Edit hints (a, c)
	Action []Hint // Action hints (enter, /, o, Y)
	System []Hint // System hints (q, esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		if a.focusedPane == PaneCategories {
			return a.getCategoryPaneHints()
		}
		return a.getBookmarkPaneHints()
	case ModeFilter:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "filter"}},
			Action: []Hint{{Key: "enter", Desc: "apply"}},
			System: []Hint{{Key: "esc", Desc: "clear"}},
		}
	case ModeAddCategory:
		return HintSet{
			Action: []Hint{{Key: "enter", Desc: "add"}},
			System: []Hint{{Key: "esc", Desc: "cancel"}},
		}
	case ModeSelectCategory:
		return HintSet{
			Nav:    []Hint{{Key: "j/k", Desc: "move"}},
			Action: []Hint{{Key: "enter", Desc: "assign"}},
			System: []Hint{{Key: "esc", Desc: "cancel"}},
		}
	default:
		return HintSet{}
	}
}

func (a App) getCategoryPaneHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "tab", Desc: "bookmarks"},
		},
		Action: []Hint{
			{Key: "enter", Desc: "filter"},
			{Key: "/", Desc: "search"},
		},
		Edit: []Hint{
			{Key: "a", Desc: "add category"},
		},
		System: []Hint{
			{Key: "q", Desc: "quit"},
		},
	}
}

func (a App) getBookmarkPaneHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "tab", Desc: "categories"},
		},
		Action: []Hint{
			{Key: "o", Desc: "open"},
			{Key: "Y", Desc: "yank URL"},
			{Key: "/", Desc: "search"},
		},
		Edit: []Hint{
			{Key: "c", Desc: "set category"},
			{Key: "a", Desc: "add category"},
		},
		System: []Hint{
			{Key: "q", Desc: "quit"},
		},
	}
}

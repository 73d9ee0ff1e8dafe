package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bmcat/internal/filter"
	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/tui/layout"
)

// renderView creates the two-pane view.
func (a App) renderView() string {
	if a.mode == ModeAddCategory || a.mode == ModeSelectCategory {
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	widths := layout.CalculatePaneWidths(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderCategoryPane(widths.CategoryWidth, paneHeight),
		a.renderBookmarkPane(widths.BookmarkWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderSearchLine(), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the app name and the active filter.
func (a App) renderHeader() string {
	status := "all bookmarks"
	switch {
	case !a.loaded:
		status = "loading..."
	case a.filterApplied:
		status = fmt.Sprintf("title contains %q", a.inputs.Filter.Value())
	case a.activeFilter != "" && a.activeFilter != model.AllCategory:
		status = "category " + a.activeFilter
	}
	return a.styles.Title.Render("bmcat") + a.styles.Header.Render(status)
}

// renderSearchLine renders the search input or the applied query.
func (a App) renderSearchLine() string {
	if a.mode == ModeFilter {
		return "/" + a.inputs.Filter.View()
	}
	if a.filterApplied {
		return a.styles.Empty.Render("/" + a.inputs.Filter.Value())
	}
	return ""
}

func (a App) renderCategoryPane(width, height int) string {
	var content strings.Builder

	content.WriteString(a.styles.Title.Render("Categories") + "\n")

	visibleHeight := layout.CalculateVisibleHeight(height, 1)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	categories := a.Categories()
	offset := layout.CalculateViewportOffset(a.categoryCursor, len(categories), visibleHeight)
	counts := a.categoryCounts()

	for i, c := range categories {
		if i < offset {
			continue
		}
		if i >= offset+visibleHeight {
			break
		}
		prefix := "  "
		if c == a.activeFilter {
			prefix = "* "
		}
		line, _ := layout.TruncateWithPrefixSuffix(c, itemWidth, prefix, fmt.Sprintf(" %d", counts[c]), a.layoutConfig.Text)
		switch {
		case a.focusedPane == PaneCategories && i == a.categoryCursor:
			content.WriteString(a.styles.ItemSelected.Render(layout.PadRight(line, itemWidth)))
		case c == a.activeFilter:
			content.WriteString(a.styles.ItemActive.Render(line))
		default:
			content.WriteString(a.styles.Item.Render(line))
		}
		content.WriteString("\n")
	}

	return a.paneStyle(PaneCategories).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// categoryCounts counts rows per category control value. All counts every row.
func (a App) categoryCounts() map[string]int {
	counts := map[string]int{model.AllCategory: len(a.rows.Rows)}
	for _, r := range a.rows.Rows {
		if r.Category != "" {
			counts[r.Category]++
		}
	}
	return counts
}

func (a App) renderBookmarkPane(width, height int) string {
	var content strings.Builder

	visible := a.rows.Visible()
	content.WriteString(a.styles.Title.Render(fmt.Sprintf("Bookmarks %d/%d", len(visible), len(a.rows.Rows))) + "\n")

	// Cursor line shows the URL below the title
	visibleHeight := layout.CalculateVisibleHeight(height, 2)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(visible) == 0 {
		switch {
		case !a.loaded:
			content.WriteString(a.styles.Empty.Render("(loading)"))
		case len(a.rows.Rows) == 0:
			content.WriteString(a.styles.Empty.Render("(no bookmarks)"))
		default:
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.bookmarkCursor, len(visible), visibleHeight)
		for i, row := range visible {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			isSelected := a.focusedPane == PaneBookmarks && i == a.bookmarkCursor
			content.WriteString(a.renderRow(row, isSelected, itemWidth) + "\n")
		}

		if row, ok := a.currentRow(); ok {
			url, _ := layout.TruncateText(row.URL, itemWidth, a.layoutConfig.Text)
			content.WriteString(a.styles.URL.Render(url))
		}
	}

	return a.paneStyle(PaneBookmarks).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

const untitledPlaceholder = "(untitled)"

// renderRow renders a bookmark title with its category right-aligned.
func (a App) renderRow(row filter.Row, isCursor bool, maxWidth int) string {
	// Untitled rows can't match the title filter; the cursor line shows the URL
	title := row.Title
	if strings.TrimSpace(title) == "" {
		title = untitledPlaceholder
	}

	label := NoCategoryOption
	if row.Category != "" {
		label = "[" + row.Category + "]"
	}

	if isCursor {
		return a.styles.ItemSelected.Render(layout.AlignRight(title, label, maxWidth, a.layoutConfig.Text))
	}

	text, _ := layout.TruncateText(title, maxWidth-layout.VisibleLength(label)-1, a.layoutConfig.Text)
	gap := maxWidth - layout.VisibleLength(text) - layout.VisibleLength(label)
	if gap < 1 {
		gap = 1
	}
	labelStyle := a.styles.Category
	if row.Category == "" {
		labelStyle = a.styles.Empty
	}
	return a.styles.Item.Render(text + strings.Repeat(" ", gap) + labelStyle.Render(label))
}

func (a App) paneStyle(p Pane) lipgloss.Style {
	if a.focusedPane == p {
		return a.styles.PaneActive
	}
	return a.styles.Pane
}

// renderModal renders the add-category input or the category control.
func (a App) renderModal() string {
	var title, content strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.WidthPercent, a.layoutConfig.Modal)

	switch a.mode {
	case ModeAddCategory:
		title.WriteString("Add Category\n\n")
		content.WriteString("Name:\n")
		content.WriteString(a.inputs.Category.View())

	case ModeSelectCategory:
		title.WriteString("Set Category\n\n")
		if row := a.rows.Row(a.selector.BookmarkID); row != nil {
			name, _ := layout.TruncateText(row.Title, modalWidth-4, a.layoutConfig.Text)
			content.WriteString(a.styles.URL.Render(name) + "\n\n")
		}

		maxVisible := a.layoutConfig.Modal.MaxVisibleOptions
		start, end := layout.CalculateVisibleListItems(maxVisible, a.selector.Idx, len(a.selector.Options))
		for i := start; i < end; i++ {
			option := a.selector.Options[i]
			if i == a.selector.Idx {
				content.WriteString(a.styles.ItemSelected.Render("▸ " + option))
			} else {
				content.WriteString("  " + option)
			}
			content.WriteString("\n")
		}
	}

	modalContent := a.styles.Title.Render(title.String()) + content.String()

	// Place modal in center, then add help bar at bottom
	modal := lipgloss.Place(
		a.width,
		a.height-3, // Leave room for help bar
		lipgloss.Center,
		lipgloss.Center,
		a.styles.Modal.Width(modalWidth).Render(modalContent),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

func (a App) renderHelpBar() string {
	return a.styles.Help.Render(a.renderHints(a.getContextualHints()))
}

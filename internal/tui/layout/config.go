package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + search line (1) + pane borders (2) + help bar (2) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted before splitting the width between the panes.
	// Accounts for app padding and pane borders.
	WidthOffset int

	// CategoryWidthPercent is the share of the width given to the category pane.
	CategoryWidthPercent int

	// MinCategoryWidth and MinBookmarkWidth clamp each pane.
	MinCategoryWidth int
	MinBookmarkWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// MaxVisibleOptions: max options shown in the category selector.
	MaxVisibleOptions int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	CategoryCharLimit int
	SearchCharLimit   int

	CategoryWidth int
	SearchWidth   int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:      7,
			MinHeight:            5,
			WidthOffset:          8,
			CategoryWidthPercent: 30,
			MinCategoryWidth:     16,
			MinBookmarkWidth:     30,
			ContentPadding:       4,
		},
		Modal: ModalConfig{
			WidthPercent:      40,
			MinWidth:          36,
			MaxWidth:          70,
			MaxVisibleOptions: 8,
		},
		Input: InputConfig{
			CategoryCharLimit: 50,
			SearchCharLimit:   100,
			CategoryWidth:     30,
			SearchWidth:       40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}

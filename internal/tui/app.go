package tui

import (
	"context"
	"maps"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bmcat/internal/filter"
	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/tui/layout"
	"github.com/rs/zerolog"
)

// BookmarkLister returns the flattened bookmark list.
type BookmarkLister interface {
	ListBookmarks(ctx context.Context) ([]model.Bookmark, error)
}

// CategoryStore is the category registry.
type CategoryStore interface {
	List(ctx context.Context) (model.Categories, error)
	Add(ctx context.Context, label string) error
}

// AssignmentStore is the bookmark -> category map.
type AssignmentStore interface {
	Load(ctx context.Context) (model.Assignments, error)
	Assign(ctx context.Context, bookmarkID, category string) error
}

// App is the main bubbletea model for the bookmark categorizer.
type App struct {
	ctx          context.Context
	bookmarks    BookmarkLister
	categories   CategoryStore
	assignments  AssignmentStore
	logger       zerolog.Logger
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	openURL      func(string) error
	copyURL      func(string) error

	// Rendered data
	rows          filter.State
	categoryList  model.Categories // registry snapshot, without All
	loaded        bool
	activeFilter  string            // category of the last category filter, "" if none
	filterApplied bool              // last predicate was the text filter
	pending       model.Assignments // submitted, not yet confirmed saved

	// Navigation state
	mode           Mode
	focusedPane    Pane
	categoryCursor int
	bookmarkCursor int // index into the visible rows
	lastKeyWasG    bool

	inputs   InputState
	selector SelectorState

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context      context.Context // optional, uses context.Background if nil
	Bookmarks    BookmarkLister
	Categories   CategoryStore
	Assignments  AssignmentStore
	Logger       *zerolog.Logger      // optional, discards if nil
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	OpenURL      func(string) error   // optional, "o" is a no-op if nil
	CopyURL      func(string) error   // optional, uses the system clipboard if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	copyURL := params.CopyURL
	if copyURL == nil {
		copyURL = clipboard.WriteAll
	}

	return App{
		ctx:          ctx,
		bookmarks:    params.Bookmarks,
		categories:   params.Categories,
		assignments:  params.Assignments,
		logger:       logger,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		openURL:      params.OpenURL,
		copyURL:      copyURL,
		rows:         filter.NewState(nil),
		categoryList: model.Categories{},
		pending:      model.Assignments{},
		mode:         ModeNormal,
		focusedPane:  PaneCategories,
		inputs:       NewInputState(layoutConfig),
		width:        80,
		height:       24,
	}
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// FocusedPane returns the focused pane.
func (a App) FocusedPane() Pane {
	return a.focusedPane
}

// Loaded reports whether the startup reads have completed.
func (a App) Loaded() bool {
	return a.loaded
}

// Categories returns the category pane entries, All first.
func (a App) Categories() []string {
	return a.categoryList.WithAll()
}

// VisibleRows returns the bookmark rows currently shown.
func (a App) VisibleRows() []filter.Row {
	return a.rows.Visible()
}

// Row returns the row for a bookmark ID, visible or not.
func (a App) Row(id string) (filter.Row, bool) {
	r := a.rows.Row(id)
	if r == nil {
		return filter.Row{}, false
	}
	return *r, true
}

// CategoryCursor returns the cursor position in the category pane.
func (a App) CategoryCursor() int {
	return a.categoryCursor
}

// BookmarkCursor returns the cursor position in the bookmark pane.
func (a App) BookmarkCursor() int {
	return a.bookmarkCursor
}

// Selector returns the open category control, if any.
func (a App) Selector() SelectorState {
	return a.selector
}

// ActiveCategory returns the category of the last category filter.
func (a App) ActiveCategory() string {
	return a.activeFilter
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.loadCmd()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case loadedMsg:
		return a.handleLoaded(msg), nil

	case categoriesLoadedMsg:
		return a.handleCategoriesLoaded(msg), nil

	case categoryFilterMsg:
		return a.handleCategoryFilter(msg), nil

	case assignedMsg:
		if a.pending[msg.bookmarkID] == msg.category {
			a.setPending(msg.bookmarkID, "", false)
		}
		if msg.err != nil {
			a.logger.Error().Err(msg.err).
				Str("op", "assign").
				Str("bookmark", msg.bookmarkID).
				Str("category", msg.category).
				Msg("failed to save assignment")
		} else {
			a.logger.Debug().Str("bookmark", msg.bookmarkID).Str("category", msg.category).Msg("assignment saved")
		}
		return a, nil

	case urlActionMsg:
		a.logger.Error().Err(msg.err).Str("op", msg.action).Str("url", msg.url).Msg("url action failed")
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		switch a.mode {
		case ModeFilter:
			return a.updateFilter(msg)
		case ModeAddCategory:
			return a.updateAddCategory(msg)
		case ModeSelectCategory:
			return a.updateSelectCategory(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a App) handleLoaded(msg loadedMsg) App {
	bookmarks := msg.bookmarks
	if msg.bookmarksErr != nil {
		a.logger.Error().Err(msg.bookmarksErr).Str("op", "listBookmarks").Msg("failed to read bookmarks")
		bookmarks = nil
	}

	categories := msg.categories
	if msg.categoriesErr != nil || categories == nil {
		if msg.categoriesErr != nil {
			a.logger.Error().Err(msg.categoriesErr).Str("op", "getCategories").Msg("failed to read categories")
		}
		categories = model.Categories{}
	}

	assignments := msg.assignments
	if msg.assignmentsErr != nil {
		a.logger.Error().Err(msg.assignmentsErr).Str("op", "getAssignments").Msg("failed to read assignments")
		assignments = nil
	}

	a.rows = filter.NewState(bookmarks)
	a.rows.SetAssignments(assignments)
	a.categoryList = categories
	a.loaded = true
	a.clampCursors()

	a.logger.Info().
		Int("bookmarks", len(bookmarks)).
		Int("categories", len(categories)).
		Int("assignments", len(assignments)).
		Msg("loaded")
	return a
}

func (a App) handleCategoriesLoaded(msg categoriesLoadedMsg) App {
	if msg.addErr != nil {
		a.logger.Error().Err(msg.addErr).Str("op", "addCategory").Msg("failed to add category")
		return a
	}

	categories := msg.categories
	if msg.listErr != nil || categories == nil {
		if msg.listErr != nil {
			a.logger.Error().Err(msg.listErr).Str("op", "getCategories").Msg("failed to reload categories")
		}
		categories = model.Categories{}
	}

	a.categoryList = categories
	a.clampCursors()
	return a
}

func (a App) handleCategoryFilter(msg categoryFilterMsg) App {
	assignments := msg.assignments
	if msg.err != nil {
		a.logger.Error().Err(msg.err).Str("op", "getAssignments").Msg("failed to read assignments for filter")
		assignments = nil
	}

	// Assignments still in flight are newer than what was read
	merged := make(model.Assignments, len(assignments)+len(a.pending))
	maps.Copy(merged, assignments)
	maps.Copy(merged, a.pending)

	a.rows.ByCategory(msg.category, merged)
	a.activeFilter = msg.category
	a.filterApplied = false
	a.inputs.Filter.Reset()
	a.bookmarkCursor = 0
	a.clampCursors()
	return a
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.setCursor(0)
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		a.setCursor(a.cursor() + 1)

	case key.Matches(msg, a.keys.Up):
		a.setCursor(a.cursor() - 1)

	case key.Matches(msg, a.keys.Bottom):
		a.setCursor(a.paneLen() - 1)

	case key.Matches(msg, a.keys.SwitchPane):
		if a.focusedPane == PaneCategories {
			a.focusedPane = PaneBookmarks
		} else {
			a.focusedPane = PaneCategories
		}

	case key.Matches(msg, a.keys.Select):
		if a.focusedPane == PaneCategories {
			categories := a.Categories()
			if a.categoryCursor < len(categories) {
				return a, a.categoryFilterCmd(categories[a.categoryCursor])
			}
			return a, nil
		}
		return a.openSelector()

	case key.Matches(msg, a.keys.SetCategory):
		if a.focusedPane == PaneBookmarks {
			return a.openSelector()
		}

	case key.Matches(msg, a.keys.AddCategory):
		a.mode = ModeAddCategory
		a.inputs.Category.Reset()
		a.inputs.Category.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.inputs.Filter.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Open):
		if row, ok := a.currentRow(); ok && a.openURL != nil {
			return a, urlCmd("open", row.URL, a.openURL)
		}

	case key.Matches(msg, a.keys.YankURL):
		if row, ok := a.currentRow(); ok {
			return a, urlCmd("copy", row.URL, a.copyURL)
		}
	}

	return a, nil
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		hadQuery := a.inputs.Filter.Value() != ""
		a.inputs.Filter.Reset()
		a.inputs.Filter.Blur()
		a.mode = ModeNormal
		// Nothing typed: keep whatever filter is showing
		if hadQuery {
			a.applyTextFilter()
		}
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.inputs.Filter.Blur()
		a.mode = ModeNormal
		a.focusedPane = PaneBookmarks
		return a, nil
	}

	var cmd tea.Cmd
	a.inputs.Filter, cmd = a.inputs.Filter.Update(msg)
	a.applyTextFilter()
	return a, cmd
}

func (a *App) applyTextFilter() {
	query := a.inputs.Filter.Value()
	a.rows.ByText(query)
	a.filterApplied = query != ""
	a.activeFilter = ""
	a.bookmarkCursor = 0
	a.clampCursors()
}

func (a App) updateAddCategory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.inputs.Category.Reset()
		a.inputs.Category.Blur()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		label := a.inputs.Category.Value()
		a.inputs.Category.Reset()
		a.inputs.Category.Blur()
		a.mode = ModeNormal
		return a, a.addCategoryCmd(label)
	}

	var cmd tea.Cmd
	a.inputs.Category, cmd = a.inputs.Category.Update(msg)
	return a, cmd
}

func (a App) openSelector() (tea.Model, tea.Cmd) {
	row, ok := a.currentRow()
	if !ok {
		return a, nil
	}
	a.selector = NewSelectorState(row.ID, row.Category, a.categoryList)
	a.mode = ModeSelectCategory
	return a, nil
}

func (a App) updateSelectCategory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.selector = SelectorState{}
		a.mode = ModeNormal

	case key.Matches(msg, a.keys.Confirm):
		id := a.selector.BookmarkID
		category := a.selector.Selected()
		a.rows.SetCategory(id, category)
		a.setPending(id, category, true)
		a.selector = SelectorState{}
		a.mode = ModeNormal
		return a, a.assignCmd(id, category)

	case key.Matches(msg, a.keys.Down):
		if a.selector.Idx < len(a.selector.Options)-1 {
			a.selector.Idx++
		}

	case key.Matches(msg, a.keys.Up):
		if a.selector.Idx > 0 {
			a.selector.Idx--
		}
	}
	return a, nil
}

// setPending records or clears an in-flight assignment. The map is replaced,
// not mutated, so earlier App values are unaffected.
func (a *App) setPending(id, category string, add bool) {
	next := make(model.Assignments, len(a.pending)+1)
	maps.Copy(next, a.pending)
	if add {
		next[id] = category
	} else {
		delete(next, id)
	}
	a.pending = next
}

// currentRow returns the visible row under the bookmark cursor.
func (a App) currentRow() (filter.Row, bool) {
	visible := a.rows.Visible()
	if a.bookmarkCursor < 0 || a.bookmarkCursor >= len(visible) {
		return filter.Row{}, false
	}
	return visible[a.bookmarkCursor], true
}

func (a App) cursor() int {
	if a.focusedPane == PaneCategories {
		return a.categoryCursor
	}
	return a.bookmarkCursor
}

func (a App) paneLen() int {
	if a.focusedPane == PaneCategories {
		return len(a.categoryList) + 1
	}
	return len(a.rows.Visible())
}

// setCursor moves the focused pane's cursor, clamped to the pane.
func (a *App) setCursor(pos int) {
	n := a.paneLen()
	if pos >= n {
		pos = n - 1
	}
	if pos < 0 {
		pos = 0
	}
	if a.focusedPane == PaneCategories {
		a.categoryCursor = pos
	} else {
		a.bookmarkCursor = pos
	}
}

func (a *App) clampCursors() {
	if last := len(a.categoryList); a.categoryCursor > last {
		a.categoryCursor = last
	}
	if last := len(a.rows.Visible()) - 1; a.bookmarkCursor > last {
		a.bookmarkCursor = last
	}
	if a.bookmarkCursor < 0 {
		a.bookmarkCursor = 0
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

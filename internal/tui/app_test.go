package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bmcat/internal/assignment"
	"github.com/nikbrunner/bmcat/internal/category"
	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/storage"
	"github.com/nikbrunner/bmcat/internal/tui"
)

type fakeLister struct {
	bookmarks []model.Bookmark
	err       error
}

func (f fakeLister) ListBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	return f.bookmarks, f.err
}

type failingCategories struct {
	addErr    error
	listErr   error
	listCalls int
}

func (f *failingCategories) List(ctx context.Context) (model.Categories, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return model.Categories{"Work"}, nil
}

func (f *failingCategories) Add(ctx context.Context, label string) error {
	return f.addErr
}

var testBookmarks = []model.Bookmark{
	{ID: "1", Title: "Go Documentation", URL: "https://go.dev/doc"},
	{ID: "2", Title: "Pasta Recipes", URL: "https://food.example.com/pasta"},
	{ID: "3", Title: "Go Playground", URL: "https://go.dev/play"},
}

type stores struct {
	registry *category.Registry
	assign   *assignment.Map
}

func newStores(t *testing.T) stores {
	t.Helper()
	acc := storage.NewAccessor(storage.NewMemoryStorage())
	t.Cleanup(acc.Close)
	return stores{
		registry: category.NewRegistry(acc),
		assign:   assignment.NewMap(acc),
	}
}

// newLoadedApp creates an App and runs its startup command.
func newLoadedApp(t *testing.T, s stores, params tui.AppParams) tui.App {
	t.Helper()
	if params.Bookmarks == nil {
		params.Bookmarks = fakeLister{bookmarks: testBookmarks}
	}
	if params.Categories == nil {
		params.Categories = s.registry
	}
	if params.Assignments == nil {
		params.Assignments = s.assign
	}
	app := tui.NewApp(params)
	app = update(t, app, app.Init()())
	if !app.Loaded() {
		t.Fatal("expected app to be loaded after init command")
	}
	return app
}

func update(t *testing.T, app tui.App, msg tea.Msg) tui.App {
	t.Helper()
	updated, _ := app.Update(msg)
	return updated.(tui.App)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key and returns the updated App and command.
func press(t *testing.T, app tui.App, k string) (tui.App, tea.Cmd) {
	t.Helper()
	updated, cmd := app.Update(keyMsg(k))
	return updated.(tui.App), cmd
}

// run sends a key and feeds the resulting command's message back in.
func run(t *testing.T, app tui.App, k string) tui.App {
	t.Helper()
	app, cmd := press(t, app, k)
	if cmd == nil {
		t.Fatalf("expected a command after %q", k)
	}
	return update(t, app, cmd())
}

func typeText(t *testing.T, app tui.App, text string) tui.App {
	t.Helper()
	for _, r := range text {
		app, _ = press(t, app, string(r))
	}
	return app
}

func visibleIDs(app tui.App) []string {
	var ids []string
	for _, r := range app.VisibleRows() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestApp_Init_LoadsEverything(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	if err := s.registry.Add(ctx, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := s.assign.Assign(ctx, "2", "Work"); err != nil {
		t.Fatal(err)
	}

	app := newLoadedApp(t, s, tui.AppParams{})

	if got := strings.Join(app.Categories(), ","); got != "All,Work" {
		t.Errorf("expected categories All,Work, got %s", got)
	}
	if len(app.VisibleRows()) != 3 {
		t.Fatalf("expected 3 visible rows, got %d", len(app.VisibleRows()))
	}
	row, _ := app.Row("2")
	if row.Category != "Work" {
		t.Errorf("expected row 2 pre-selected to Work, got %q", row.Category)
	}
	row, _ = app.Row("1")
	if row.Category != "" {
		t.Errorf("expected row 1 uncategorized, got %q", row.Category)
	}
}

func TestApp_Init_FailedReadsAreEmpty(t *testing.T) {
	s := newStores(t)
	app := newLoadedApp(t, s, tui.AppParams{
		Bookmarks:  fakeLister{err: errors.New("no tree")},
		Categories: &failingCategories{listErr: errors.New("storage down")},
	})

	if len(app.VisibleRows()) != 0 {
		t.Errorf("expected no rows, got %d", len(app.VisibleRows()))
	}
	if got := app.Categories(); len(got) != 1 || got[0] != model.AllCategory {
		t.Errorf("expected only All, got %v", got)
	}
	if !strings.Contains(app.View(), "(no bookmarks)") {
		t.Error("expected empty bookmark pane")
	}
}

func TestApp_Navigation_JK(t *testing.T) {
	app := newLoadedApp(t, newStores(t), tui.AppParams{})
	app, _ = press(t, app, "tab")

	if app.FocusedPane() != tui.PaneBookmarks {
		t.Fatal("expected bookmark pane focused after tab")
	}

	app, _ = press(t, app, "j")
	if app.BookmarkCursor() != 1 {
		t.Errorf("after j, expected cursor 1, got %d", app.BookmarkCursor())
	}

	app, _ = press(t, app, "j")
	app, _ = press(t, app, "j")
	if app.BookmarkCursor() != 2 {
		t.Errorf("j at bottom should stay at 2, got %d", app.BookmarkCursor())
	}

	app, _ = press(t, app, "g")
	app, _ = press(t, app, "g")
	if app.BookmarkCursor() != 0 {
		t.Errorf("gg should go to top, got %d", app.BookmarkCursor())
	}

	app, _ = press(t, app, "k")
	if app.BookmarkCursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.BookmarkCursor())
	}

	app, _ = press(t, app, "G")
	if app.BookmarkCursor() != 2 {
		t.Errorf("G should go to bottom, got %d", app.BookmarkCursor())
	}

	// Category pane keeps its own cursor
	app, _ = press(t, app, "tab")
	if app.CategoryCursor() != 0 {
		t.Errorf("expected category cursor 0, got %d", app.CategoryCursor())
	}
	app, _ = press(t, app, "j")
	if app.CategoryCursor() != 0 {
		t.Errorf("only All exists, cursor should stay 0, got %d", app.CategoryCursor())
	}
}

func TestApp_AddCategory(t *testing.T) {
	s := newStores(t)
	app := newLoadedApp(t, s, tui.AppParams{})

	app, _ = press(t, app, "a")
	if app.Mode() != tui.ModeAddCategory {
		t.Fatalf("expected ModeAddCategory, got %d", app.Mode())
	}

	app = typeText(t, app, "  Work ")
	app = run(t, app, "enter")

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after add, got %d", app.Mode())
	}
	if got := strings.Join(app.Categories(), ","); got != "All,Work" {
		t.Errorf("expected All,Work, got %s", got)
	}

	stored, err := s.registry.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0] != "Work" {
		t.Errorf("expected stored [Work], got %v", stored)
	}

	// Input is cleared after add
	app, _ = press(t, app, "a")
	app = run(t, app, "enter")
	if got := strings.Join(app.Categories(), ","); got != "All,Work" {
		t.Errorf("empty add should change nothing, got %s", got)
	}
}

func TestApp_AddCategory_Duplicate(t *testing.T) {
	app := newLoadedApp(t, newStores(t), tui.AppParams{})

	for i := 0; i < 2; i++ {
		app, _ = press(t, app, "a")
		app = typeText(t, app, "Work")
		app = run(t, app, "enter")
	}

	if got := strings.Join(app.Categories(), ","); got != "All,Work" {
		t.Errorf("expected All,Work, got %s", got)
	}
}

func TestApp_AddCategory_Cancel(t *testing.T) {
	s := newStores(t)
	app := newLoadedApp(t, s, tui.AppParams{})

	app, _ = press(t, app, "a")
	app = typeText(t, app, "Work")
	app, cmd := press(t, app, "esc")

	if cmd != nil {
		t.Error("cancel should not issue a command")
	}
	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal, got %d", app.Mode())
	}
	if len(app.Categories()) != 1 {
		t.Errorf("expected only All, got %v", app.Categories())
	}
}

func TestApp_AddCategory_FailureSkipsReload(t *testing.T) {
	cats := &failingCategories{addErr: errors.New("quota exceeded")}
	app := newLoadedApp(t, newStores(t), tui.AppParams{Categories: cats})
	callsAfterInit := cats.listCalls

	app, _ = press(t, app, "a")
	app = typeText(t, app, "Home")
	app = run(t, app, "enter")

	if cats.listCalls != callsAfterInit {
		t.Errorf("expected no reload after failed add, got %d extra calls", cats.listCalls-callsAfterInit)
	}
	if got := strings.Join(app.Categories(), ","); got != "All,Work" {
		t.Errorf("expected categories unchanged, got %s", got)
	}
}

func TestApp_AssignCategory(t *testing.T) {
	s := newStores(t)
	app := newLoadedApp(t, s, tui.AppParams{})

	app, _ = press(t, app, "a")
	app = typeText(t, app, "Work")
	app = run(t, app, "enter")

	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "c")
	if app.Mode() != tui.ModeSelectCategory {
		t.Fatalf("expected ModeSelectCategory, got %d", app.Mode())
	}

	sel := app.Selector()
	if got := strings.Join(sel.Options, ","); got != "Select category,Work" {
		t.Errorf("unexpected options %s", got)
	}
	if sel.Idx != 0 {
		t.Errorf("expected placeholder pre-selected, got %d", sel.Idx)
	}

	app, _ = press(t, app, "j")
	app = run(t, app, "enter")

	row, _ := app.Row("1")
	if row.Category != "Work" {
		t.Errorf("expected row 1 Work, got %q", row.Category)
	}

	stored, err := s.assign.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stored["1"] != "Work" {
		t.Errorf("expected stored 1=Work, got %v", stored)
	}

	// Re-opening shows the stored value pre-selected
	reloaded := newLoadedApp(t, s, tui.AppParams{})
	reloaded, _ = press(t, reloaded, "tab")
	reloaded, _ = press(t, reloaded, "enter")
	if reloaded.Selector().Idx != 1 {
		t.Errorf("expected Work pre-selected after reload, got %d", reloaded.Selector().Idx)
	}
}

func TestApp_AssignCategory_Placeholder(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	if err := s.registry.Add(ctx, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := s.assign.Assign(ctx, "1", "Work"); err != nil {
		t.Fatal(err)
	}

	app := newLoadedApp(t, s, tui.AppParams{})
	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "c")
	app, _ = press(t, app, "k")
	app = run(t, app, "enter")

	stored, err := s.assign.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	category, ok := stored["1"]
	if !ok || category != "" {
		t.Errorf("expected stored empty label for 1, got %q (present=%v)", category, ok)
	}
	if stored.Matches("1", "Work") {
		t.Error("bookmark 1 should no longer match Work")
	}
}

func TestApp_SelectCategory_Cancel(t *testing.T) {
	app := newLoadedApp(t, newStores(t), tui.AppParams{})
	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "c")
	app, cmd := press(t, app, "esc")

	if cmd != nil {
		t.Error("cancel should not issue a command")
	}
	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal, got %d", app.Mode())
	}
}

func TestApp_CategoryFilter(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	for _, c := range []string{"Work", "Home"} {
		if err := s.registry.Add(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	app := newLoadedApp(t, s, tui.AppParams{})

	// Stored after startup; the filter must see it
	if err := s.assign.Assign(ctx, "2", "Home"); err != nil {
		t.Fatal(err)
	}

	app, _ = press(t, app, "j")
	app, _ = press(t, app, "j")
	app = run(t, app, "enter")

	if got := strings.Join(visibleIDs(app), ","); got != "2" {
		t.Errorf("expected only 2 visible for Home, got %s", got)
	}
	if app.ActiveCategory() != "Home" {
		t.Errorf("expected active category Home, got %q", app.ActiveCategory())
	}

	app, _ = press(t, app, "k")
	app = run(t, app, "enter")
	if len(visibleIDs(app)) != 0 {
		t.Errorf("expected nothing in Work, got %v", visibleIDs(app))
	}

	app, _ = press(t, app, "k")
	app = run(t, app, "enter")
	if len(visibleIDs(app)) != 3 {
		t.Errorf("expected all rows for All, got %v", visibleIDs(app))
	}
}

func TestApp_TextFilter(t *testing.T) {
	app := newLoadedApp(t, newStores(t), tui.AppParams{})

	app, _ = press(t, app, "/")
	if app.Mode() != tui.ModeFilter {
		t.Fatalf("expected ModeFilter, got %d", app.Mode())
	}

	app = typeText(t, app, "G")
	if got := strings.Join(visibleIDs(app), ","); got != "1,3" {
		t.Errorf("after G expected 1,3, got %s", got)
	}

	app = typeText(t, app, "o d")
	if got := strings.Join(visibleIDs(app), ","); got != "1" {
		t.Errorf("after 'Go d' expected 1, got %s", got)
	}

	app, _ = press(t, app, "backspace")
	app, _ = press(t, app, "backspace")
	if got := strings.Join(visibleIDs(app), ","); got != "1,3" {
		t.Errorf("after backspace expected 1,3, got %s", got)
	}

	app, _ = press(t, app, "enter")
	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after enter, got %d", app.Mode())
	}
	if len(visibleIDs(app)) != 2 {
		t.Errorf("filter should persist after enter, got %v", visibleIDs(app))
	}

	app, _ = press(t, app, "/")
	app, _ = press(t, app, "esc")
	if len(visibleIDs(app)) != 3 {
		t.Errorf("esc should clear the filter, got %v", visibleIDs(app))
	}
}

func TestApp_TextFilter_ReplacesCategoryFilter(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	if err := s.registry.Add(ctx, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := s.assign.Assign(ctx, "2", "Work"); err != nil {
		t.Fatal(err)
	}
	app := newLoadedApp(t, s, tui.AppParams{})

	app, _ = press(t, app, "j")
	app = run(t, app, "enter")
	if got := strings.Join(visibleIDs(app), ","); got != "2" {
		t.Fatalf("expected 2 for Work, got %s", got)
	}

	app, _ = press(t, app, "/")
	app = typeText(t, app, "go")
	if got := strings.Join(visibleIDs(app), ","); got != "1,3" {
		t.Errorf("text filter should ignore category, got %s", got)
	}
}

func TestApp_YankURL(t *testing.T) {
	var copied string
	app := newLoadedApp(t, newStores(t), tui.AppParams{
		CopyURL: func(url string) error {
			copied = url
			return nil
		},
	})

	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "j")
	_, cmd := press(t, app, "Y")
	if cmd == nil {
		t.Fatal("expected a copy command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("expected no message on success, got %v", msg)
	}
	if copied != "https://food.example.com/pasta" {
		t.Errorf("unexpected copied URL %q", copied)
	}
}

func TestApp_OpenURL(t *testing.T) {
	var opened string
	app := newLoadedApp(t, newStores(t), tui.AppParams{
		OpenURL: func(url string) error {
			opened = url
			return nil
		},
	})

	app, _ = press(t, app, "tab")
	_, cmd := press(t, app, "o")
	if cmd == nil {
		t.Fatal("expected an open command")
	}
	cmd()
	if opened != "https://go.dev/doc" {
		t.Errorf("unexpected opened URL %q", opened)
	}
}

func TestApp_Quit(t *testing.T) {
	app := newLoadedApp(t, newStores(t), tui.AppParams{})
	_, cmd := press(t, app, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestApp_View(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	if err := s.registry.Add(ctx, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := s.assign.Assign(ctx, "1", "Work"); err != nil {
		t.Fatal(err)
	}
	app := newLoadedApp(t, s, tui.AppParams{})
	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := app.View()
	for _, want := range []string{"Categories", "All", "Work", "Go Documentation", "[Work]", "Bookmarks 3/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "c")
	view = app.View()
	if !strings.Contains(view, "Set Category") || !strings.Contains(view, "Select category") {
		t.Error("expected category control in view")
	}
}

func TestApp_TextFilter_EscWithoutTypingKeepsCategoryFilter(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	if err := s.registry.Add(ctx, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := s.assign.Assign(ctx, "1", "Work"); err != nil {
		t.Fatal(err)
	}
	app := newLoadedApp(t, s, tui.AppParams{})

	app, _ = press(t, app, "j")
	app = run(t, app, "enter")
	if got := strings.Join(visibleIDs(app), ","); got != "1" {
		t.Fatalf("expected 1 for Work, got %s", got)
	}

	app, _ = press(t, app, "/")
	app, _ = press(t, app, "esc")

	if got := strings.Join(visibleIDs(app), ","); got != "1" {
		t.Errorf("esc without typing should keep the Work filter, got %s", got)
	}
	if app.ActiveCategory() != "Work" {
		t.Errorf("expected active category Work, got %q", app.ActiveCategory())
	}
	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal, got %d", app.Mode())
	}
}

func TestApp_View_CategoryCounts(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	for _, c := range []string{"Work", "Home"} {
		if err := s.registry.Add(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.assign.Assign(ctx, "1", "Work"); err != nil {
		t.Fatal(err)
	}
	if err := s.assign.Assign(ctx, "3", "Work"); err != nil {
		t.Fatal(err)
	}
	app := newLoadedApp(t, s, tui.AppParams{})
	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 30})

	app, _ = press(t, app, "j")
	app = run(t, app, "enter")
	app, _ = press(t, app, "tab")

	view := app.View()
	for _, want := range []string{"  All 3", "* Work 2", "  Home 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("category pane missing %q", want)
		}
	}
}

func TestApp_View_UntitledRow(t *testing.T) {
	app := newLoadedApp(t, newStores(t), tui.AppParams{
		Bookmarks: fakeLister{bookmarks: []model.Bookmark{
			{ID: "1", Title: "Named", URL: "https://example.com/named"},
			{ID: "2", Title: "", URL: "https://example.com/untitled-page"},
		}},
	})
	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := app.View()
	if !strings.Contains(view, "(untitled)") {
		t.Error("expected placeholder for untitled bookmark")
	}
	if strings.Contains(view, "untitled-page") {
		t.Error("URL of a row not under the cursor should not be shown")
	}

	// Cursor line reveals the URL
	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "j")
	if !strings.Contains(app.View(), "https://example.com/untitled-page") {
		t.Error("expected URL of the untitled row under the cursor")
	}
}

func TestApp_CategoryFilter_IncludesUnsavedAssignment(t *testing.T) {
	s := newStores(t)
	if err := s.registry.Add(context.Background(), "Work"); err != nil {
		t.Fatal(err)
	}
	app := newLoadedApp(t, s, tui.AppParams{})

	// Assign 1 -> Work but hold back the save
	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "c")
	app, _ = press(t, app, "j")
	app, saveCmd := press(t, app, "enter")
	if saveCmd == nil {
		t.Fatal("expected an assign command")
	}

	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "j")
	app = run(t, app, "enter")

	if got := strings.Join(visibleIDs(app), ","); got != "1" {
		t.Errorf("filter should include the unsaved assignment, got %s", got)
	}

	app = update(t, app, saveCmd())

	// Re-filtering after the save reads it from storage
	app = run(t, app, "enter")
	if got := strings.Join(visibleIDs(app), ","); got != "1" {
		t.Errorf("expected 1 after save, got %s", got)
	}
}

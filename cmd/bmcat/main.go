package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bmcat/internal/assignment"
	"github.com/nikbrunner/bmcat/internal/bookmarks"
	"github.com/nikbrunner/bmcat/internal/category"
	"github.com/nikbrunner/bmcat/internal/exporter"
	"github.com/nikbrunner/bmcat/internal/filter"
	"github.com/nikbrunner/bmcat/internal/linkcheck"
	"github.com/nikbrunner/bmcat/internal/logging"
	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/picker"
	"github.com/nikbrunner/bmcat/internal/search"
	"github.com/nikbrunner/bmcat/internal/storage"
	"github.com/nikbrunner/bmcat/internal/tui"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "list":
			category := model.AllCategory
			if len(os.Args) >= 3 {
				category = strings.Join(os.Args[2:], " ")
			}
			runList(category)
			return
		case "categories":
			runCategories()
			return
		case "add":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: bmcat add <category>\n")
				os.Exit(1)
			}
			runAdd(strings.Join(os.Args[2:], " "))
			return
		case "assign":
			if len(os.Args) < 4 {
				fmt.Fprintf(os.Stderr, "Usage: bmcat assign <bookmark-id> <category>\n")
				os.Exit(1)
			}
			runAssign(os.Args[2], strings.Join(os.Args[3:], " "))
			return
		case "check":
			category := model.AllCategory
			if len(os.Args) >= 3 {
				category = strings.Join(os.Args[2:], " ")
			}
			runCheck(category)
			return
		case "export":
			// Export with optional path
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		default:
			// Treat as search query (join all remaining args)
			query := strings.Join(os.Args[1:], " ")
			runQuickSearch(query)
			return
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `bmcat - categorize browser bookmarks

Usage:
  bmcat                         Open interactive TUI
  bmcat <query>                 Quick search → select → open
  bmcat list [category]         List bookmarks, optionally only one category
  bmcat categories              List categories
  bmcat add <category>          Add a category
  bmcat assign <id> <category>  Assign a bookmark to a category
  bmcat check [category]        Report dead links, optionally only one category
  bmcat export [path]           Export bookmarks grouped by category to HTML
  bmcat help                    Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    gg/G        Jump to top/bottom
    tab         Switch between categories and bookmarks

  Actions:
    enter       Filter by category / set bookmark category
    c           Set bookmark category
    a           Add category
    /           Filter bookmarks by title
    o           Open bookmark in browser
    Y           Copy URL to clipboard
    q           Quit

Configuration:
  ~/.config/bmcat/config.json
`
	fmt.Print(help)
}

// env holds everything opened from the config file.
type env struct {
	ctx         context.Context
	config      *storage.Config
	logger      zerolog.Logger
	accessor    *storage.Accessor
	reader      *bookmarks.Reader
	registry    *category.Registry
	assignments *assignment.Map
	closeFns    []func() error
}

// openEnv loads config, opens the log and the storage backend.
// Exits the process on failure.
func openEnv() *env {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}

	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.Open(config.LogFile, config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.OpenStorage(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	bookmarksFile := config.BookmarksFile
	if bookmarksFile == "" {
		bookmarksFile, err = bookmarks.DefaultChromePath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error locating browser bookmarks: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Debug().
		Str("config", configPath).
		Str("backend", config.Backend).
		Str("bookmarks", bookmarksFile).
		Msg("starting")

	accessor := storage.NewAccessor(store)
	return &env{
		ctx:         context.Background(),
		config:      config,
		logger:      logger,
		accessor:    accessor,
		reader:      bookmarks.NewReader(bookmarks.OpenSource(bookmarksFile)),
		registry:    category.NewRegistry(accessor),
		assignments: assignment.NewMap(accessor),
		closeFns:    []func() error{store.Close, closeLog},
	}
}

// Close stops the write queue, then closes storage and the log.
func (e *env) Close() {
	e.accessor.Close()
	for _, fn := range e.closeFns {
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing: %v\n", err)
		}
	}
}

// runTUI runs the full interactive TUI.
func runTUI() {
	e := openEnv()
	defer e.Close()

	app := tui.NewApp(tui.AppParams{
		Context:     e.ctx,
		Bookmarks:   e.reader,
		Categories:  e.registry,
		Assignments: e.assignments,
		Logger:      &e.logger,
		OpenURL:     openURL,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		e.logger.Error().Err(err).Msg("tui exited with error")
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		e.Close()
		os.Exit(1)
	}
}

// runList prints bookmarks, optionally only those in one category.
func runList(category string) {
	e := openEnv()
	defer e.Close()

	list, err := e.reader.ListBookmarks(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading bookmarks: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	assignments, err := e.assignments.Load(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assignments: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	state := filter.NewState(list)
	state.SetAssignments(assignments)
	state.ByCategory(category, assignments)

	rows := state.Visible()
	for _, r := range rows {
		label := "-"
		if r.Category != "" {
			label = r.Category
		}
		fmt.Printf("%s\t%s\t[%s]\n\t%s\n", r.ID, r.Title, label, r.URL)
	}
	fmt.Printf("%d of %d bookmarks\n", len(rows), len(list))
}

// runCategories prints the category registry.
func runCategories() {
	e := openEnv()
	defer e.Close()

	categories, err := e.registry.List(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading categories: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	if len(categories) == 0 {
		fmt.Println("No categories yet. Add one with: bmcat add <category>")
		return
	}
	for _, c := range categories {
		fmt.Println(c)
	}
}

// runAdd adds a category to the registry.
func runAdd(label string) {
	e := openEnv()
	defer e.Close()

	if err := e.registry.Add(e.ctx, label); err != nil {
		e.logger.Error().Err(err).Str("op", "addCategory").Msg("failed to add category")
		fmt.Fprintf(os.Stderr, "Error adding category: %v\n", err)
		e.Close()
		os.Exit(1)
	}
	fmt.Printf("Added category %q\n", strings.TrimSpace(label))
}

// runAssign assigns one bookmark to a category.
func runAssign(bookmarkID, category string) {
	e := openEnv()
	defer e.Close()

	if err := e.assignments.Assign(e.ctx, bookmarkID, category); err != nil {
		e.logger.Error().Err(err).Str("op", "assign").Str("bookmark", bookmarkID).Msg("failed to save assignment")
		fmt.Fprintf(os.Stderr, "Error saving assignment: %v\n", err)
		e.Close()
		os.Exit(1)
	}
	fmt.Printf("Assigned %s to %q\n", bookmarkID, category)
}

// runQuickSearch performs a fuzzy search and opens the selected bookmark.
func runQuickSearch(query string) {
	e := openEnv()
	defer e.Close()

	list, err := e.reader.ListBookmarks(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading bookmarks: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	results := search.FuzzySearchBookmarks(list, query)
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		return
	}

	var selectedBookmark *model.Bookmark

	if len(results) == 1 {
		// Single result - select it directly
		selectedBookmark = results[0].Bookmark
		fmt.Printf("Opening: %s\n", selectedBookmark.Title)
	} else {
		assignments, err := e.assignments.Load(e.ctx)
		if err != nil {
			e.logger.Error().Err(err).Str("op", "getAssignments").Msg("failed to read assignments")
			assignments = model.Assignments{}
		}

		p := picker.New(results, query, assignments)
		finalModel, err := tea.NewProgram(p).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			e.Close()
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selectedBookmark = finalPicker.SelectedBookmark()
	}

	if selectedBookmark == nil {
		return
	}

	if err := openURL(selectedBookmark.URL); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening URL: %v\n", err)
	}
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	// Determine output path
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	e := openEnv()
	defer e.Close()

	list, err := e.reader.ListBookmarks(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading bookmarks: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	categories, err := e.registry.List(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading categories: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	assignments, err := e.assignments.Load(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assignments: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	html := exporter.ExportHTML(list, categories, assignments)
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	fmt.Printf("Exported %d bookmarks in %d categories to %s\n",
		len(list), len(categories), outputPath)
}

// runCheck requests bookmark URLs and prints the ones that are not healthy.
func runCheck(category string) {
	e := openEnv()
	defer e.Close()

	list, err := e.reader.ListBookmarks(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading bookmarks: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	assignments, err := e.assignments.Load(e.ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assignments: %v\n", err)
		e.Close()
		os.Exit(1)
	}

	state := filter.NewState(list)
	state.ByCategory(category, assignments)
	candidates := state.VisibleBookmarks()

	fmt.Printf("Checking %d bookmarks...\n", len(candidates))
	checker := linkcheck.NewChecker(linkcheck.DefaultOptions(), e.logger)
	results := checker.Check(e.ctx, candidates, assignments)

	var dead, unreachable int
	for _, r := range results {
		switch r.Status {
		case linkcheck.Healthy:
			continue
		case linkcheck.Dead:
			dead++
		default:
			unreachable++
		}

		label := "-"
		if r.Category != "" {
			label = r.Category
		}
		detail := r.Reason
		if r.StatusCode != 0 {
			detail = fmt.Sprintf("%d %s", r.StatusCode, r.Reason)
		}
		fmt.Printf("%-11s %s\t%s\t[%s]\t%s\n\t%s\n",
			r.Status, r.Bookmark.ID, r.Bookmark.Title, label, strings.TrimSpace(detail), r.Bookmark.URL)
	}

	e.logger.Info().Int("checked", len(results)).Int("dead", dead).Int("unreachable", unreachable).Msg("link check done")
	fmt.Printf("%d dead, %d unreachable, %d ok\n", dead, unreachable, len(results)-dead-unreachable)
}

package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmcat/internal/model"
)

// UncategorizedFolder holds bookmarks without a known category.
const UncategorizedFolder = "Uncategorized"

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-by-category-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-by-category-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports bookmarks to Netscape bookmark HTML, one folder per category.
// Folders follow registry order; bookmarks keep their input order. Bookmarks
// without an assignment, or assigned to a category missing from the registry,
// go to the Uncategorized folder. Empty folders are skipped.
func ExportHTML(bookmarks []model.Bookmark, categories model.Categories, assignments model.Assignments) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	groups := make(map[string][]model.Bookmark, len(categories)+1)
	for _, bm := range bookmarks {
		category, ok := assignments.CategoryOf(bm.ID)
		if !ok || !categories.Contains(category) {
			category = UncategorizedFolder
		}
		groups[category] = append(groups[category], bm)
	}

	for _, category := range categories {
		writeFolder(&b, category, groups[category])
	}
	if !categories.Contains(UncategorizedFolder) {
		writeFolder(&b, UncategorizedFolder, groups[UncategorizedFolder])
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeFolder writes one category folder with its bookmarks.
func writeFolder(b *strings.Builder, name string, bookmarks []model.Bookmark) {
	if len(bookmarks) == 0 {
		return
	}

	prefix := "    "
	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for _, bm := range bookmarks {
		fmt.Fprintf(b,
			"%s    <DT><A HREF=\"%s\">%s</A>\n",
			prefix,
			html.EscapeString(bm.URL),
			html.EscapeString(bm.Title),
		)
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

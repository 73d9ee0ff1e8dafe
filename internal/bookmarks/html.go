package bookmarks

import (
	"context"
	"os"

	"github.com/nikbrunner/bmcat/internal/importer"
	"github.com/nikbrunner/bmcat/internal/model"
)

// HTMLSource reads a Netscape bookmark HTML export.
type HTMLSource struct {
	path string
}

// NewHTMLSource creates an HTMLSource for the given file.
func NewHTMLSource(path string) *HTMLSource {
	return &HTMLSource{path: path}
}

// GetTree parses the export file.
func (s *HTMLSource) GetTree(ctx context.Context) ([]model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return importer.ParseHTMLBookmarks(file)
}

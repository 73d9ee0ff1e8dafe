package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nikbrunner/bmcat/internal/model"
)

// chromeFile is the on-disk layout of a Chromium Bookmarks file.
type chromeFile struct {
	Roots struct {
		BookmarkBar *chromeNode `json:"bookmark_bar"`
		Other       *chromeNode `json:"other"`
		Synced      *chromeNode `json:"synced"`
	} `json:"roots"`
}

type chromeNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"` // "url" or "folder"
	URL      string       `json:"url"`
	Children []chromeNode `json:"children"`
}

func (c chromeNode) toNode() model.Node {
	n := model.Node{ID: c.ID, Title: c.Name}
	if c.Type == "url" {
		n.URL = c.URL
	}
	for _, child := range c.Children {
		n.Children = append(n.Children, child.toNode())
	}
	return n
}

// ChromeSource reads a Chromium profile Bookmarks file.
type ChromeSource struct {
	path string
}

// NewChromeSource creates a ChromeSource for the given file.
func NewChromeSource(path string) *ChromeSource {
	return &ChromeSource{path: path}
}

// Path returns the Bookmarks file path.
func (s *ChromeSource) Path() string {
	return s.path
}

// GetTree returns a single synthetic root whose children are the profile's
// roots (bookmark bar, other, synced), matching the browser's own tree API.
func (s *ChromeSource) GetTree(ctx context.Context) ([]model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var file chromeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	root := model.Node{ID: "0"}
	for _, r := range []*chromeNode{file.Roots.BookmarkBar, file.Roots.Other, file.Roots.Synced} {
		if r != nil {
			root.Children = append(root.Children, r.toNode())
		}
	}

	return []model.Node{root}, nil
}

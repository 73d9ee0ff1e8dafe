// Package bookmarks reads the browser's bookmark forest.
package bookmarks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nikbrunner/bmcat/internal/model"
)

// Source returns the browser's bookmark forest.
type Source interface {
	GetTree(ctx context.Context) ([]model.Node, error)
}

// OpenSource picks a Source for path by its extension.
// .html/.htm files are Netscape exports, everything else is a Chromium profile file.
func OpenSource(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return NewHTMLSource(path)
	default:
		return NewChromeSource(path)
	}
}

// DefaultChromePath returns the Bookmarks file of the default Chrome profile.
func DefaultChromePath() (string, error) {
	if runtime.GOOS == "windows" {
		dir, err := os.UserCacheDir() // %LocalAppData%
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "Google", "Chrome", "User Data", "Default", "Bookmarks"), nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(dir, "Google", "Chrome", "Default", "Bookmarks"), nil
	}
	return filepath.Join(dir, "google-chrome", "Default", "Bookmarks"), nil
}

package bookmarks

import (
	"context"

	"github.com/nikbrunner/bmcat/internal/model"
)

// Reader lists the bookmarks of a Source.
type Reader struct {
	source Source
}

// NewReader creates a Reader over source.
func NewReader(source Source) *Reader {
	return &Reader{source: source}
}

// ListBookmarks returns every bookmark of the forest in depth-first pre-order.
func (r *Reader) ListBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	tree, err := r.source.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return Flatten(tree), nil
}

// Flatten walks the forest depth-first and returns its bookmarks in pre-order.
// Folders are recursed into but never returned.
func Flatten(nodes []model.Node) []model.Bookmark {
	result := []model.Bookmark{}

	var walk func(model.Node)
	walk = func(n model.Node) {
		if n.IsBookmark() {
			result = append(result, n.Bookmark())
		}
		for _, child := range n.Children {
			walk(child)
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	return result
}

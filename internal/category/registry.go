// Package category holds the user's category set.
package category

import (
	"context"
	"strings"

	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/storage"
)

// Registry is the stored, ordered, de-duplicated set of category labels.
// It keeps no cache: every read goes back to storage.
type Registry struct {
	store *storage.Accessor
}

// NewRegistry creates a Registry backed by store.
func NewRegistry(store *storage.Accessor) *Registry {
	return &Registry{store: store}
}

// List returns the current category set.
func (r *Registry) List(ctx context.Context) (model.Categories, error) {
	return r.store.GetCategories(ctx)
}

// Add appends label and persists the whole set.
// Labels are trimmed; empty labels and exact duplicates are ignored.
func (r *Registry) Add(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}

	return r.store.Update(ctx, func(ctx context.Context) error {
		categories, err := r.store.GetCategories(ctx)
		if err != nil {
			return err
		}
		if categories.Contains(label) {
			return nil
		}
		return r.store.SetCategories(ctx, append(categories, label))
	})
}

// Package assignment holds the bookmark to category map.
package assignment

import (
	"context"

	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/nikbrunner/bmcat/internal/storage"
)

// Map is the stored bookmark ID -> category map.
// One entry per bookmark; reassignment overwrites.
type Map struct {
	store *storage.Accessor
}

// NewMap creates a Map backed by store.
func NewMap(store *storage.Accessor) *Map {
	return &Map{store: store}
}

// Load returns the current assignments. It runs on the write queue, so it
// sees every Assign submitted before it.
func (m *Map) Load(ctx context.Context) (model.Assignments, error) {
	var assignments model.Assignments
	err := m.store.Update(ctx, func(ctx context.Context) error {
		var err error
		assignments, err = m.store.GetAssignments(ctx)
		return err
	})
	if err != nil {
		return model.Assignments{}, err
	}
	return assignments, nil
}

// Assign sets the category of bookmarkID and persists the whole map.
// The category is not checked against the registry.
func (m *Map) Assign(ctx context.Context, bookmarkID, category string) error {
	return m.store.Update(ctx, func(ctx context.Context) error {
		assignments, err := m.store.GetAssignments(ctx)
		if err != nil {
			return err
		}
		assignments[bookmarkID] = category
		return m.store.SetAssignments(ctx, assignments)
	})
}

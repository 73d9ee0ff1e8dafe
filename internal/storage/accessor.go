package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nikbrunner/bmcat/internal/model"
)

// ErrClosed is returned by Update after the Accessor has been closed.
var ErrClosed = errors.New("storage: accessor closed")

// Accessor reads and writes the category set and the assignment map.
//
// Reads are single round trips to the Storage. Mutations go through Update,
// which runs them one at a time on a single writer goroutine, so concurrent
// read-modify-write sequences never interleave. A read that must observe
// earlier mutations runs inside Update too.
type Accessor struct {
	storage Storage

	ops       chan op
	done      chan struct{}
	closeOnce sync.Once
}

type op struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// NewAccessor wraps s and starts its writer goroutine.
func NewAccessor(s Storage) *Accessor {
	a := &Accessor{
		storage: s,
		ops:     make(chan op),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Accessor) run() {
	for {
		select {
		case o := <-a.ops:
			o.result <- o.fn(o.ctx)
		case <-a.done:
			return
		}
	}
}

// Update runs fn on the writer goroutine and waits for it to finish.
// A submitted fn always runs to completion, even if ctx is cancelled while
// the caller is waiting.
func (a *Accessor) Update(ctx context.Context, fn func(ctx context.Context) error) error {
	// run may still be receiving after Close; refuse before racing it
	select {
	case <-a.done:
		return ErrClosed
	default:
	}

	o := op{ctx: ctx, fn: fn, result: make(chan error, 1)}

	select {
	case a.ops <- o:
	case <-a.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-o.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer goroutine. It does not close the underlying Storage.
func (a *Accessor) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}

// GetCategories returns the stored category set, empty if unset.
func (a *Accessor) GetCategories(ctx context.Context) (model.Categories, error) {
	categories := model.Categories{}
	if err := a.get(ctx, KeyCategories, &categories); err != nil {
		return model.Categories{}, err
	}
	if categories == nil {
		categories = model.Categories{}
	}
	return categories, nil
}

// SetCategories replaces the stored category set.
func (a *Accessor) SetCategories(ctx context.Context, categories model.Categories) error {
	if categories == nil {
		categories = model.Categories{}
	}
	return a.set(ctx, KeyCategories, categories)
}

// GetAssignments returns the stored assignment map, empty if unset.
func (a *Accessor) GetAssignments(ctx context.Context) (model.Assignments, error) {
	assignments := model.Assignments{}
	if err := a.get(ctx, KeyAssignments, &assignments); err != nil {
		return model.Assignments{}, err
	}
	if assignments == nil {
		assignments = model.Assignments{}
	}
	return assignments, nil
}

// SetAssignments replaces the stored assignment map.
func (a *Accessor) SetAssignments(ctx context.Context, assignments model.Assignments) error {
	if assignments == nil {
		assignments = model.Assignments{}
	}
	return a.set(ctx, KeyAssignments, assignments)
}

func (a *Accessor) get(ctx context.Context, key string, v any) error {
	values, err := a.storage.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (a *Accessor) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.storage.Set(ctx, map[string]json.RawMessage{key: raw}); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

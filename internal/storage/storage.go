package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys of the two records bmcat persists.
const (
	KeyCategories  = "categories"
	KeyAssignments = "bookmarksWithCategories"
)

// Storage is a key/value store holding whole JSON snapshots per key.
// Missing keys are simply absent from the result of Get.
type Storage interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, items map[string]json.RawMessage) error
	Close() error
}

// JSONStorage implements Storage using a single JSON object file.
type JSONStorage struct {
	path string
	mu   sync.Mutex
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Get returns the stored values for keys.
// A missing file reads as an empty store.
func (s *JSONStorage) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return pick(all, keys), nil
}

// Set merges items into the file and writes it back.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Set(ctx context.Context, items map[string]json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	for k, v := range items {
		all[k] = v
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// Write via temp file + rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Close is a no-op for file storage.
func (s *JSONStorage) Close() error {
	return nil
}

func (s *JSONStorage) load() (map[string]json.RawMessage, error) {
	all := map[string]json.RawMessage{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return all, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return all, nil
	}

	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if all == nil {
		all = map[string]json.RawMessage{}
	}

	// The file is indented for humans; hand out compact values
	for k, v := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.path, err)
		}
		all[k] = buf.Bytes()
	}
	return all, nil
}

// MemoryStorage implements Storage in memory. Used by tests and throwaway runs.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]json.RawMessage{}}
}

// Get returns copies of the stored values for keys.
func (s *MemoryStorage) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return pick(s.values, keys), nil
}

// Set stores copies of items.
func (s *MemoryStorage) Set(ctx context.Context, items map[string]json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range items {
		s.values[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

// pick copies the requested keys out of all, skipping absent ones.
func pick(all map[string]json.RawMessage, keys []string) map[string]json.RawMessage {
	result := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			result[k] = append(json.RawMessage(nil), v...)
		}
	}
	return result
}

// DefaultJSONPath returns the default store path: ~/.config/bmcat/storage.json
func DefaultJSONPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "storage.json"), nil
}

// OpenStorage opens the backend selected by the config.
func OpenStorage(cfg *Config) (Storage, error) {
	switch cfg.Backend {
	case BackendSQLite:
		path := cfg.StoragePath
		if path == "" {
			var err error
			if path, err = DefaultSQLitePath(); err != nil {
				return nil, err
			}
		}
		return NewSQLiteStorage(path)

	case BackendMemory:
		return NewMemoryStorage(), nil

	case BackendJSON, "":
		path := cfg.StoragePath
		if path == "" {
			var err error
			if path, err = DefaultJSONPath(); err != nil {
				return nil, err
			}
		}
		return NewJSONStorage(path), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

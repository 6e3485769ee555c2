package store

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// InMemoryStore is an in-memory store implementation.
type InMemoryStore struct {
	data map[string]any
	mu   sync.RWMutex
}

// Ensure InMemoryStore implements the Store interface.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore initializes a new InMemoryStore.
func NewInMemoryStore(options map[string]any) (Store, error) {
	return &InMemoryStore{data: make(map[string]any)}, nil
}

// Set stores a path-value pair in memory.
func (m *InMemoryStore) Set(ctx context.Context, path string, value any) error {
	if path == "" {
		return ErrEmptyPath
	}
	if value == nil {
		return errors.Wrapf(ErrNilValue, "path %s", path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = value
	return nil
}

// Get retrieves a value by path from memory.
func (m *InMemoryStore) Get(ctx context.Context, path string) (any, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[path]
	if !exists {
		return nil, errors.Wrapf(ErrNotFound, "path %s", path)
	}
	return value, nil
}

package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Store is the parameter-store collaborator: the only external capability the
// resolution engine suspends on. Get failures for absent paths are reported
// with ErrNotFound so callers can distinguish absence from transport errors.
// Put happens at synthesis time, outside the resolution engine, but is part
// of the capability surface.
type Store interface {
	Get(ctx context.Context, path string) (any, error)
	Set(ctx context.Context, path string, value any) error
}

var (
	// ErrNotFound indicates the path has no value in the store.
	ErrNotFound = errors.New("parameter not found")

	ErrEmptyPath = errors.New("path cannot be empty")
	ErrNilValue  = errors.New("value cannot be nil")
)

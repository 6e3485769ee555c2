package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Store type names accepted in configuration.
const (
	TypeSSMParameter = "aws-ssm-parameter"
	TypeInMemory     = "in-memory"
)

var ErrStoreTypeNotFound = errors.New("store type not found")

// NewStoreFromConfig constructs the store backend named by the config.
func NewStoreFromConfig(ctx context.Context, config StoreConfig) (Store, error) {
	switch config.Type {
	case TypeSSMParameter:
		var opts SSMStoreOptions
		if err := parseOptions(config.Options, &opts); err != nil {
			return nil, errors.Wrap(err, "failed to parse SSM store options")
		}
		return NewSSMStore(ctx, opts)

	case TypeInMemory:
		return NewInMemoryStore(config.Options)

	default:
		return nil, errors.Wrapf(ErrStoreTypeNotFound, "%s", config.Type)
	}
}

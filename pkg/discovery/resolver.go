package discovery

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/pkg/merge"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
	"github.com/geekcafe/cdk-factory-sub001/pkg/store"
)

// Resolver resolves cross-stack parameter exchange for one workload: export
// path validation and import value resolution against an injected
// parameter-store capability.
type Resolver struct {
	workload *schema.Workload
	store    store.Store
}

// NewResolver builds a resolver for the workload over the given store.
func NewResolver(workload *schema.Workload, st store.Store) *Resolver {
	return &Resolver{workload: workload, store: st}
}

// ExportPaths expands and validates every enabled stack's ssm_exports for the
// given environment. It returns the mapping of parameter path to exporting
// stack name. The engine never writes exports itself; publishing is a
// synthesis-time side effect.
//
// An export value is either an explicit parameter path or "auto", which
// expands by the same convention an "auto" import uses. Two stacks expanding
// to the same path fail with ErrDuplicateExportPath naming both stacks.
func (r *Resolver) ExportPaths(environment string) (map[string]string, error) {
	paths := make(map[string]string)

	for i := range r.workload.Stacks {
		stack := &r.workload.Stacks[i]
		if !stack.IsEnabled() {
			continue
		}
		for _, key := range sortedKeys(stack.SSMExports) {
			path := stack.SSMExports[key]
			if path == AutoSource {
				path = ConventionalPath(r.workload.Name, environment, ModuleDomain(stack.Module), key)
			}
			if err := ValidateParameterPath(path); err != nil {
				return nil, errors.Wrapf(err, "stack %s export %s", stack.Name, key)
			}
			if owner, exists := paths[path]; exists {
				return nil, errors.Wrapf(errUtils.ErrDuplicateExportPath,
					"path %s exported by both %s and %s", path, owner, stack.Name)
			}
			paths[path] = stack.Name
		}
	}

	return paths, nil
}

// importResult is one resolved import value. The result set is write-once per
// logical key.
type importResult struct {
	value any
	err   error
}

// ResolveImports resolves a stack's ssm_imports and injects the resolved
// values into the stack's effective config block at the path implied by each
// logical key (dots descend into nested objects).
//
// Lookups for independent keys are issued concurrently; each key's result is
// written exactly once. Errors are reported for the lexicographically first
// failing key so the surfaced error is deterministic regardless of fetch
// interleaving.
func (r *Resolver) ResolveImports(ctx context.Context, stack *schema.Stack, environment string, config map[string]any) error {
	if len(stack.SSMImports) == 0 {
		return nil
	}

	keys := sortedKeys(stack.SSMImports)

	var mu sync.Mutex
	results := make(map[string]importResult, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		source := stack.SSMImports[key]
		g.Go(func() error {
			value, err := r.resolveImport(gctx, stack, environment, key, source)

			mu.Lock()
			defer mu.Unlock()
			if _, exists := results[key]; exists {
				return errors.Wrapf(errUtils.ErrInternalConsistency,
					"import %s resolved twice for stack %s", key, stack.Name)
			}
			results[key] = importResult{value: value, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Surface the first error in key order, then inject the values.
	for _, key := range keys {
		if err := results[key].err; err != nil {
			return err
		}
	}
	for _, key := range keys {
		if err := merge.SetValueAtPath(config, strings.Split(key, "."), results[key].value); err != nil {
			return errors.Wrapf(err, "stack %s import %s", stack.Name, key)
		}
	}

	return nil
}

// resolveImport fetches one import value. An explicit path is used verbatim;
// the "auto" source constructs the conventional path from the producing
// stack's module domain.
func (r *Resolver) resolveImport(ctx context.Context, stack *schema.Stack, environment, key, source string) (any, error) {
	if source != AutoSource {
		value, err := r.store.Get(ctx, source)
		if err != nil {
			return nil, errors.Wrapf(errUtils.ErrImportResolutionFailed,
				"stack %s key %s path %s: %v", stack.Name, key, source, err)
		}
		return value, nil
	}

	producer, err := r.findProducer(stack, key)
	if err != nil {
		return nil, err
	}

	path := ConventionalPath(r.workload.Name, environment, ModuleDomain(producer.Module), key)
	value, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(errUtils.ErrAutoDiscoveryFailed,
			"stack %s key %s path %s: %v", stack.Name, key, path, err)
	}
	return value, nil
}

// findProducer locates the unique enabled stack exporting the logical key.
// Zero or multiple producers is indistinguishable from absence to the
// consumer, so both fail discovery.
func (r *Resolver) findProducer(consumer *schema.Stack, key string) (*schema.Stack, error) {
	var producer *schema.Stack
	for i := range r.workload.Stacks {
		candidate := &r.workload.Stacks[i]
		if candidate.Name == consumer.Name || !candidate.IsEnabled() {
			continue
		}
		if _, exports := candidate.SSMExports[key]; !exports {
			continue
		}
		if producer != nil {
			return nil, errors.Wrapf(errUtils.ErrAutoDiscoveryFailed,
				"stack %s key %s: exported by both %s and %s", consumer.Name, key, producer.Name, candidate.Name)
		}
		producer = candidate
	}
	if producer == nil {
		return nil, errors.Wrapf(errUtils.ErrAutoDiscoveryFailed,
			"stack %s key %s: no enabled stack exports it", consumer.Name, key)
	}
	return producer, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

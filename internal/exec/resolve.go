package exec

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/pkg/config"
	"github.com/geekcafe/cdk-factory-sub001/pkg/discovery"
	log "github.com/geekcafe/cdk-factory-sub001/pkg/logger"
	"github.com/geekcafe/cdk-factory-sub001/pkg/merge"
	"github.com/geekcafe/cdk-factory-sub001/pkg/placeholder"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
	"github.com/geekcafe/cdk-factory-sub001/pkg/store"
	"github.com/geekcafe/cdk-factory-sub001/pkg/validate"
)

// ResolveOptions configures one resolution run.
type ResolveOptions struct {
	// ConfigPath is the workload configuration file.
	ConfigPath string
	// Deployment selects the deployment to resolve for.
	Deployment string
	// Context holds CLI-supplied key=value context pairs for placeholder
	// resolution, keyed by parameter name.
	Context map[string]string
	// Env overrides the process environment snapshot; nil snapshots os.Environ.
	Env map[string]string
	// Store is the parameter-store collaborator for import resolution.
	Store store.Store
	// Constraints overrides the mutual-exclusion constraint list; nil uses
	// the built-in defaults.
	Constraints []validate.ExclusionConstraint
}

// Result is the sole output artifact of a successful resolution: the ordered
// execution plan plus the per-stack effective config blocks, fully resolved
// and never further mutated.
type Result struct {
	Config           *schema.Config            `json:"-"`
	Deployment       *schema.Deployment        `json:"deployment"`
	Plan             *Plan                     `json:"plan"`
	EffectiveConfigs map[string]map[string]any `json:"effective_configs"`
	// ExportPaths maps each validated export parameter path to the exporting
	// stack. Publishing the values is a synthesis-time side effect.
	ExportPaths map[string]string `json:"export_paths"`
}

// Resolve runs the full resolution pass: placeholder substitution,
// hierarchical override merging, cross-stack import resolution and plan
// construction. The run is fail-fast: the first error along the
// deterministic traversal (stacks in declaration order, then
// deployments/pipelines) aborts the run and nothing partial is returned.
func Resolve(ctx context.Context, opts *ResolveOptions) (*Result, error) {
	doc, err := config.LoadRawDocument(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := validate.ValidateConfigDocument(any(doc)); err != nil {
		return nil, err
	}

	resolved, err := resolvePlaceholders(doc, opts)
	if err != nil {
		return nil, err
	}

	cfg, err := config.DecodeConfig(resolved)
	if err != nil {
		return nil, err
	}
	workload := &cfg.Workload

	if err := config.ValidateWorkload(workload); err != nil {
		return nil, err
	}

	deployment := workload.DeploymentByName(opts.Deployment)
	if deployment == nil {
		return nil, errors.Wrapf(errUtils.ErrUnresolvedReference, "deployment %s", opts.Deployment)
	}
	if !deployment.IsEnabled() {
		return nil, errors.Wrapf(errUtils.ErrDisabledDependency, "deployment %s is disabled", opts.Deployment)
	}

	constraints := opts.Constraints
	if constraints == nil {
		constraints = validate.DefaultConstraints()
	}

	resolver := discovery.NewResolver(workload, opts.Store)
	exportPaths, err := resolver.ExportPaths(deployment.Environment)
	if err != nil {
		return nil, err
	}

	effective, err := resolveStacks(ctx, workload, deployment, resolver, constraints)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(workload, deployment.Name)
	if err != nil {
		return nil, err
	}

	log.Info("workload resolved", "workload", workload.Name,
		"deployment", deployment.Name, "stacks", len(effective), "groups", len(plan.Groups))

	return &Result{
		Config:           cfg,
		Deployment:       deployment,
		Plan:             plan,
		EffectiveConfigs: effective,
		ExportPaths:      exportPaths,
	}, nil
}

// resolvePlaceholders substitutes {{TOKEN}} markers in the raw tree.
// Parameter definitions are decoded from the raw tree first; the definitions
// themselves are token-free by construction.
func resolvePlaceholders(doc map[string]any, opts *ResolveOptions) (map[string]any, error) {
	partial, err := config.DecodeConfig(doc)
	if err != nil {
		return nil, err
	}

	env := opts.Env
	if env == nil {
		env = envSnapshot()
	}

	resolver := placeholder.NewResolver(partial.Parameters, placeholder.Context{
		CLIValues: opts.Context,
		Env:       env,
	})
	resolved, err := resolver.ResolveTree(any(doc))
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]any), nil
}

// resolveStacks produces the effective config block for every enabled stack
// in declaration order: override merge, then import injection, then
// mutual-exclusion validation.
func resolveStacks(
	ctx context.Context,
	workload *schema.Workload,
	deployment *schema.Deployment,
	resolver *discovery.Resolver,
	constraints []validate.ExclusionConstraint,
) (map[string]map[string]any, error) {
	enabled := lo.Filter(workload.Stacks, func(s schema.Stack, _ int) bool {
		return s.IsEnabled()
	})

	effective := make(map[string]map[string]any, len(enabled))
	for i := range enabled {
		stack := &enabled[i]

		block, err := merge.EffectiveStackConfig(stack, deployment.Account, deployment.Environment)
		if err != nil {
			return nil, err
		}
		if block == nil {
			block = map[string]any{}
		}

		if err := resolver.ResolveImports(ctx, stack, deployment.Environment, block); err != nil {
			return nil, err
		}

		if err := validate.CheckConstraints(stack.Name, stack.Module, block, constraints); err != nil {
			return nil, err
		}

		effective[stack.Name] = block
	}
	return effective, nil
}

// envSnapshot captures the process environment as a map so resolution never
// reads the environment ad hoc.
func envSnapshot() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if key, value, found := strings.Cut(entry, "="); found {
			env[key] = value
		}
	}
	return env
}

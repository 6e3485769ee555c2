package placeholder

import (
	"regexp"

	"github.com/cockroachdb/errors"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	log "github.com/geekcafe/cdk-factory-sub001/pkg/logger"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
)

// tokenPattern matches {{TOKEN}} markers. Tokens appear only inside string
// values, never in keys.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_][A-Za-z0-9_.-]*)\s*\}\}`)

// Context carries the sources a token may resolve from. The process
// environment is injected as a snapshot so tests stay hermetic.
type Context struct {
	// CLIValues are context key/value pairs supplied on the command line,
	// keyed by the underlying parameter name.
	CLIValues map[string]string
	// Env is a snapshot of the process environment.
	Env map[string]string
}

// Resolver substitutes {{TOKEN}} markers in a raw configuration tree.
// Substitution is textual and single-pass: a resolved value is never
// rescanned for further tokens.
type Resolver struct {
	params map[string]schema.ParameterDefinition
	ctx    Context

	// resolved memoizes token values so every occurrence of a token maps to
	// exactly one value within a run.
	resolved map[string]string
}

// NewResolver builds a resolver over the given parameter definitions.
func NewResolver(params []schema.ParameterDefinition, ctx Context) *Resolver {
	byPlaceholder := make(map[string]schema.ParameterDefinition, len(params))
	for _, p := range params {
		byPlaceholder[p.Placeholder] = p
	}
	if ctx.CLIValues == nil {
		ctx.CLIValues = map[string]string{}
	}
	if ctx.Env == nil {
		ctx.Env = map[string]string{}
	}
	return &Resolver{
		params:   byPlaceholder,
		ctx:      ctx,
		resolved: make(map[string]string),
	}
}

// ResolveTree walks the raw tree and returns a copy with every token
// occurrence replaced. A token with no resolvable source fails with
// ErrMissingPlaceholder unless it sits under a branch disabled via
// `"enabled": false`, in which case it is left verbatim.
func (r *Resolver) ResolveTree(tree any) (any, error) {
	return r.resolveValue(tree, false)
}

func (r *Resolver) resolveValue(value any, optional bool) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return r.resolveMap(v, optional)
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			resolved, err := r.resolveValue(item, optional)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil
	case string:
		return r.resolveString(v, optional)
	default:
		return value, nil
	}
}

func (r *Resolver) resolveMap(m map[string]any, optional bool) (map[string]any, error) {
	// A branch explicitly disabled with `"enabled": false` guards its tokens
	// as optional: they are not required to resolve.
	branchOptional := optional || isDisabledBranch(m)

	result := make(map[string]any, len(m))
	for key, value := range m {
		resolved, err := r.resolveValue(value, branchOptional)
		if err != nil {
			return nil, err
		}
		result[key] = resolved
	}
	return result, nil
}

func (r *Resolver) resolveString(s string, optional bool) (string, error) {
	var firstErr error
	replaced := tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		token := tokenPattern.FindStringSubmatch(match)[1]
		value, err := r.resolveToken(token)
		if err != nil {
			if optional {
				log.Debug("leaving unresolved token in disabled branch", "token", token)
				return match
			}
			firstErr = err
			return match
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return replaced, nil
}

// resolveToken resolves a single token. First match wins:
//  1. CLI context value for the underlying parameter name.
//  2. The literal value on the matching parameter definition.
//  3. The environment variable named by the definition.
func (r *Resolver) resolveToken(token string) (string, error) {
	if value, ok := r.resolved[token]; ok {
		return value, nil
	}

	def, hasDef := r.params[token]

	paramName := token
	if hasDef && def.Parameter != "" {
		paramName = def.Parameter
	}

	if value, ok := r.ctx.CLIValues[paramName]; ok {
		r.resolved[token] = value
		return value, nil
	}

	if !hasDef {
		return "", errors.Wrapf(errUtils.ErrMissingPlaceholder, "token {{%s}} has no parameter definition", token)
	}

	if def.Value != "" {
		r.resolved[token] = def.Value
		return def.Value, nil
	}

	if def.EnvVar != "" {
		if value, ok := r.ctx.Env[def.EnvVar]; ok {
			r.resolved[token] = value
			return value, nil
		}
		return "", errors.Wrapf(errUtils.ErrMissingPlaceholder,
			"token {{%s}}: environment variable %s is not set", token, def.EnvVar)
	}

	return "", errors.Wrapf(errUtils.ErrMissingPlaceholder, "token {{%s}}", token)
}

func isDisabledBranch(m map[string]any) bool {
	enabled, ok := m["enabled"]
	if !ok {
		return false
	}
	flag, ok := enabled.(bool)
	return ok && !flag
}

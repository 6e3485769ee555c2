package merge

import (
	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Merge deep-merges the given maps in order, later inputs taking precedence.
// Objects merge key-by-key recursively; scalars and slices at a matched path
// are replaced wholesale. Structural incompatibility between an input and the
// accumulated result (an object overridden by a scalar, or the reverse) is
// surfaced as ErrMergeConflict rather than silently coerced.
func Merge(inputs []map[string]any) (map[string]any, error) {
	result := map[string]any{}

	for _, input := range inputs {
		if input == nil {
			continue
		}
		if err := checkStructure(result, input, nil); err != nil {
			return nil, err
		}

		// Deep-copy the input so mergo never aliases caller-owned maps into
		// the result.
		copied, err := DeepCopyMap(input)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(&result, copied, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
			return nil, errors.Wrap(err, "merge failed")
		}
	}

	return result, nil
}

// DeepCopyMap returns a structural copy of the map via a JSON round trip.
func DeepCopyMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "deep copy marshal")
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "deep copy unmarshal")
	}
	return result, nil
}

// checkStructure walks the override against the base and reports the first
// path where an object would be replaced by a non-object or vice versa.
func checkStructure(base, override map[string]any, path []string) error {
	for key, overrideVal := range override {
		baseVal, exists := base[key]
		if !exists || baseVal == nil || overrideVal == nil {
			continue
		}

		currentPath := append(append([]string{}, path...), key)

		baseMap, baseIsMap := baseVal.(map[string]any)
		overrideMap, overrideIsMap := overrideVal.(map[string]any)

		switch {
		case baseIsMap && overrideIsMap:
			if err := checkStructure(baseMap, overrideMap, currentPath); err != nil {
				return err
			}
		case baseIsMap != overrideIsMap:
			return errors.Wrapf(errUtils.ErrMergeConflict,
				"override at %s replaces %s with %s", joinPath(currentPath),
				typeName(baseVal), typeName(overrideVal))
		}
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "scalar"
	}
}

func joinPath(path []string) string {
	result := ""
	for i, segment := range path {
		if i > 0 {
			result += "."
		}
		result += segment
	}
	return result
}

// SetValueAtPath sets a value at a specific path in a nested map structure.
// Creates intermediate maps as needed.
func SetValueAtPath(data map[string]any, path []string, value any) error {
	if len(path) == 0 {
		return errUtils.ErrEmptyPath
	}

	// Navigate to the parent of the target field.
	current := data
	for i := 0; i < len(path)-1; i++ {
		key := path[i]

		next, exists := current[key]
		if !exists {
			newMap := make(map[string]any)
			current[key] = newMap
			current = newMap
			continue
		}

		nextMap, ok := next.(map[string]any)
		if !ok {
			return errors.Wrapf(errUtils.ErrCannotNavigatePath, "path=%v field=%s", path, key)
		}
		current = nextMap
	}

	current[path[len(path)-1]] = value
	return nil
}

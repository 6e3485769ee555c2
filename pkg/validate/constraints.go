package validate

import (
	"sort"

	"github.com/cockroachdb/errors"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
)

// ExclusionConstraint declares a set of mutually exclusive option keys for a
// module type. Setting two or more of the listed options in one stack's
// effective config is a resolution-time error.
type ExclusionConstraint struct {
	Module  string
	Options []string
}

// DefaultConstraints returns the built-in mutual-exclusion constraint list.
func DefaultConstraints() []ExclusionConstraint {
	return []ExclusionConstraint{
		{Module: "rum.app-monitor", Options: []string{"excluded_pages", "included_pages"}},
		{Module: "cloudfront.distribution", Options: []string{"aliases", "disable_aliases"}},
	}
}

// CheckConstraints enforces the declared constraints against a stack's
// effective config block, failing fast with ErrConflictingOptions.
func CheckConstraints(stackName, module string, config map[string]any, constraints []ExclusionConstraint) error {
	for _, constraint := range constraints {
		if constraint.Module != module {
			continue
		}

		var present []string
		for _, option := range constraint.Options {
			if value, ok := config[option]; ok && value != nil {
				present = append(present, option)
			}
		}
		if len(present) > 1 {
			sort.Strings(present)
			return errors.Wrapf(errUtils.ErrConflictingOptions,
				"stack %s module %s: options %v are mutually exclusive", stackName, module, present)
		}
	}
	return nil
}

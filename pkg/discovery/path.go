package discovery

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
)

// AutoSource is the import/export value selecting convention-based path
// construction.
const AutoSource = "auto"

// paramPathPattern validates SSM parameter paths: /-rooted, non-empty
// segments of word characters, dots and dashes.
var paramPathPattern = regexp.MustCompile(`^(/[A-Za-z0-9_.-]+)+$`)

// ConventionalPath builds the enhanced-SSM-pattern path for a logical key:
//
//	/{workload-name}/{environment}/{domain}/{logical-key}
//
// The segment and separator layout is a wire contract shared with every
// deployed stack; changing it silently breaks cross-stack wiring.
func ConventionalPath(workloadName, environment, domain, logicalKey string) string {
	return "/" + workloadName + "/" + environment + "/" + domain + "/" + logicalKey
}

// ModuleDomain derives the parameter-path domain segment from a stack module
// identifier: dot separators become path separators, so module
// "cognito.user-pool" yields domain "cognito/user-pool".
func ModuleDomain(module string) string {
	return strings.ReplaceAll(module, ".", "/")
}

// ValidateParameterPath checks that a path is syntactically valid for the
// parameter store.
func ValidateParameterPath(path string) error {
	if !paramPathPattern.MatchString(path) {
		return errors.Wrapf(errUtils.ErrInvalidExportPath, "%q", path)
	}
	return nil
}

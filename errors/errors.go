package errors

import "github.com/cockroachdb/errors"

// Resolution error taxonomy. Every failure surfaced by the engine wraps
// exactly one of these sentinels so callers can classify it with errors.Is
// and map it to a distinct exit code.
var (
	// ErrMissingPlaceholder indicates a {{TOKEN}} with no resolvable source.
	ErrMissingPlaceholder = errors.New("placeholder has no resolvable source")

	// ErrConflictingOptions indicates mutually-exclusive module options both set.
	ErrConflictingOptions = errors.New("conflicting module options")

	// ErrAutoDiscoveryFailed indicates an "auto" import whose conventional
	// parameter path yielded no value.
	ErrAutoDiscoveryFailed = errors.New("auto discovery failed")

	// ErrImportResolutionFailed indicates an explicit-path import lookup failure.
	ErrImportResolutionFailed = errors.New("import resolution failed")

	// ErrDuplicateExportPath indicates two stacks exporting the same parameter path.
	ErrDuplicateExportPath = errors.New("duplicate export path")

	// ErrUnresolvedReference indicates a deployment, pipeline or stage naming
	// an entity that does not exist.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrDisabledDependency indicates a reference to an entity that exists but
	// is disabled.
	ErrDisabledDependency = errors.New("disabled dependency")

	// ErrMergeConflict indicates an override block structurally incompatible
	// with its base.
	ErrMergeConflict = errors.New("merge conflict")
)

// Ambient sentinels used outside the core taxonomy.
var (
	ErrConfigNotFound      = errors.New("configuration file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidMode         = errors.New("invalid deployment mode")
	ErrDuplicateStackName  = errors.New("duplicate stack name")
	ErrInvalidExportPath   = errors.New("invalid export path")
	ErrEmptyPath           = errors.New("path cannot be empty")
	ErrCannotNavigatePath  = errors.New("cannot navigate path")
	ErrInternalConsistency = errors.New("internal consistency error")
	ErrBuildStepFailed     = errors.New("build step failed")
)

// Exit codes per error category. The CLI reports these so callers can
// distinguish failure classes without parsing messages.
const (
	exitGeneric             = 1
	exitMissingPlaceholder  = 10
	exitConflictingOptions  = 11
	exitAutoDiscovery       = 12
	exitImportResolution    = 13
	exitDuplicateExportPath = 14
	exitUnresolvedReference = 15
	exitDisabledDependency  = 16
	exitMergeConflict       = 17
)

var exitCodes = []struct {
	sentinel error
	code     int
}{
	{ErrMissingPlaceholder, exitMissingPlaceholder},
	{ErrConflictingOptions, exitConflictingOptions},
	{ErrAutoDiscoveryFailed, exitAutoDiscovery},
	{ErrImportResolutionFailed, exitImportResolution},
	{ErrDuplicateExportPath, exitDuplicateExportPath},
	{ErrUnresolvedReference, exitUnresolvedReference},
	{ErrDisabledDependency, exitDisabledDependency},
	{ErrMergeConflict, exitMergeConflict},
}

// ExitCodeForCategory returns the exit code assigned to the error's taxonomy
// category, or the generic code 1 when the error belongs to no category.
func ExitCodeForCategory(err error) int {
	if err == nil {
		return 0
	}
	for _, ec := range exitCodes {
		if errors.Is(err, ec.sentinel) {
			return ec.code
		}
	}
	return exitGeneric
}

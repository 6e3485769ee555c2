package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeForCategoryDistinctPerSentinel(t *testing.T) {
	sentinels := []error{
		ErrMissingPlaceholder,
		ErrConflictingOptions,
		ErrAutoDiscoveryFailed,
		ErrImportResolutionFailed,
		ErrDuplicateExportPath,
		ErrUnresolvedReference,
		ErrDisabledDependency,
		ErrMergeConflict,
	}

	seen := map[int]bool{}
	for _, sentinel := range sentinels {
		code := ExitCodeForCategory(sentinel)
		assert.Greater(t, code, 1, "sentinel %v must have a dedicated code", sentinel)
		assert.False(t, seen[code], "exit code %d assigned twice", code)
		seen[code] = true
	}
}

func TestExitCodeForCategoryWrappedError(t *testing.T) {
	err := errors.Wrapf(ErrDisabledDependency, "stack %s referenced by deployment %s is disabled", "legacy", "dev")
	assert.Equal(t, ExitCodeForCategory(ErrDisabledDependency), ExitCodeForCategory(err))
}

func TestExitCodeForCategoryUnknownErrorIsGeneric(t *testing.T) {
	assert.Equal(t, 1, ExitCodeForCategory(errors.New("something else")))
}

func TestExitCodeForCategoryNil(t *testing.T) {
	assert.Equal(t, 0, ExitCodeForCategory(nil))
}

func TestGetExitCodePrefersAttachedCode(t *testing.T) {
	err := WithExitCode(errors.New("boom"), 42)
	assert.Equal(t, 42, GetExitCode(err))
}

func TestGetExitCodeFallsBackToCategory(t *testing.T) {
	err := errors.Wrap(ErrMergeConflict, "override at b")
	assert.Equal(t, ExitCodeForCategory(ErrMergeConflict), GetExitCode(err))
}

func TestWithExitCodeNil(t *testing.T) {
	assert.Nil(t, WithExitCode(nil, 7))
	assert.Equal(t, 0, GetExitCode(nil))
}

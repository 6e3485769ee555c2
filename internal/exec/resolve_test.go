package exec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cdk.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const demoConfig = `{
	"parameters": [
		{"placeholder": "WORKLOAD_NAME", "parameter": "workload-name", "env": "WORKLOAD_NAME"},
		{"placeholder": "ENV_NAME", "parameter": "environment", "value": "dev"}
	],
	"workload": {
		"name": "{{WORKLOAD_NAME}}",
		"devops": {"repository": "org/demo", "account": "111122223333", "region": "us-east-1"},
		"stacks": [
			{
				"name": "bucket",
				"module": "bucket",
				"config": {"bucket_prefix": "{{WORKLOAD_NAME}}-{{ENV_NAME}}-usage-report"},
				"accounts": [
					{"account": "111122223333",
					 "config": {"versioned": true},
					 "environments": [
						{"environment": "dev", "config": {"bucket_prefix": "{{WORKLOAD_NAME}}-dev-override"}}
					 ]}
				],
				"ssm_exports": {"bucket_name": "auto"}
			},
			{
				"name": "site",
				"module": "cloudfront.distribution",
				"config": {},
				"ssm_imports": {"bucket_name": "auto"}
			}
		],
		"deployments": [
			{"name": "dev", "mode": "stack", "stacks": ["bucket", "site"],
			 "environment": "dev", "account": "111122223333", "region": "us-east-1"}
		]
	}
}`

func demoStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewInMemoryStore(nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "/demo/dev/bucket/bucket_name", "demo-dev-assets"))
	return s
}

func demoOptions(t *testing.T, configJSON string) *ResolveOptions {
	t.Helper()
	return &ResolveOptions{
		ConfigPath: writeConfig(t, configJSON),
		Deployment: "dev",
		Env:        map[string]string{"WORKLOAD_NAME": "demo"},
		Store:      demoStore(t),
	}
}

func TestResolveEndToEnd(t *testing.T) {
	result, err := Resolve(context.Background(), demoOptions(t, demoConfig))
	require.NoError(t, err)

	// Plan: one group, listed order.
	require.Len(t, result.Plan.Groups, 1)
	assert.Equal(t, []string{"bucket", "site"}, result.Plan.Groups[0].Stacks)

	// Placeholder resolution reached the workload name.
	assert.Equal(t, "demo", result.Config.Workload.Name)

	// Account override applied, environment override refined it, tokens
	// resolved inside the override block.
	bucket := result.EffectiveConfigs["bucket"]
	assert.Equal(t, true, bucket["versioned"])
	assert.Equal(t, "demo-dev-override", bucket["bucket_prefix"])

	// Auto import fetched from the conventional path.
	site := result.EffectiveConfigs["site"]
	assert.Equal(t, "demo-dev-assets", site["bucket_name"])

	// Export path validated and attributed.
	assert.Equal(t, map[string]string{"/demo/dev/bucket/bucket_name": "bucket"}, result.ExportPaths)
}

func TestResolveMissingPlaceholderEnvVar(t *testing.T) {
	opts := demoOptions(t, demoConfig)
	opts.Env = map[string]string{}

	_, err := Resolve(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrMissingPlaceholder))
	assert.Contains(t, err.Error(), "WORKLOAD_NAME")
}

func TestResolveCLIContextWinsOverEnv(t *testing.T) {
	opts := demoOptions(t, demoConfig)
	opts.Context = map[string]string{"workload-name": "demo"}
	opts.Env = map[string]string{"WORKLOAD_NAME": "ignored"}

	// The store is seeded for workload "demo"; resolution only succeeds if
	// the CLI context value won.
	result, err := Resolve(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "demo", result.Config.Workload.Name)
}

func TestResolveAutoDiscoveryFailed(t *testing.T) {
	opts := demoOptions(t, demoConfig)
	empty, err := store.NewInMemoryStore(nil)
	require.NoError(t, err)
	opts.Store = empty

	_, err = Resolve(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrAutoDiscoveryFailed))
	assert.Contains(t, err.Error(), "/demo/dev/bucket/bucket_name")
}

func TestResolveUnknownDeployment(t *testing.T) {
	opts := demoOptions(t, demoConfig)
	opts.Deployment = "prod"

	_, err := Resolve(context.Background(), opts)
	assert.True(t, errors.Is(err, errUtils.ErrUnresolvedReference))
}

func TestResolveDuplicateStackNames(t *testing.T) {
	duplicated := `{
		"workload": {
			"name": "demo",
			"stacks": [
				{"name": "bucket", "module": "bucket"},
				{"name": "bucket", "module": "bucket"}
			],
			"deployments": [{"name": "dev", "mode": "stack", "stacks": ["bucket"]}]
		}
	}`
	opts := demoOptions(t, duplicated)

	_, err := Resolve(context.Background(), opts)
	assert.True(t, errors.Is(err, errUtils.ErrDuplicateStackName))
}

func TestResolveConflictingOptions(t *testing.T) {
	conflicting := `{
		"workload": {
			"name": "demo",
			"stacks": [{
				"name": "monitor", "module": "rum.app-monitor",
				"config": {"excluded_pages": ["/admin"], "included_pages": ["/app"]}
			}],
			"deployments": [{"name": "dev", "mode": "stack", "stacks": ["monitor"],
				"environment": "dev", "account": "111122223333"}]
		}
	}`
	opts := demoOptions(t, conflicting)

	_, err := Resolve(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrConflictingOptions))
}

func TestResolveSchemaViolation(t *testing.T) {
	opts := demoOptions(t, `{"workload": {"name": "demo"}}`)

	_, err := Resolve(context.Background(), opts)
	assert.True(t, errors.Is(err, errUtils.ErrInvalidConfig))
}

func TestResolveConfigFileNotFound(t *testing.T) {
	opts := &ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "absent.json"),
		Deployment: "dev",
	}

	_, err := Resolve(context.Background(), opts)
	assert.True(t, errors.Is(err, errUtils.ErrConfigNotFound))
}

func TestResolveDisabledStackSkipped(t *testing.T) {
	skipped := `{
		"workload": {
			"name": "demo",
			"stacks": [
				{"name": "bucket", "module": "bucket"},
				{"name": "legacy", "module": "bucket", "enabled": false,
				 "config": {"token": "{{NOT_DEFINED_ANYWHERE}}"}}
			],
			"deployments": [{"name": "dev", "mode": "stack", "stacks": ["bucket"],
				"environment": "dev", "account": "111122223333"}]
		}
	}`
	opts := demoOptions(t, skipped)

	result, err := Resolve(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, result.EffectiveConfigs, "bucket")
	assert.NotContains(t, result.EffectiveConfigs, "legacy")
}

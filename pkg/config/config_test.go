package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
)

func TestLoadRawDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdk.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"workload": {"name": "demo"}}`), 0o644))

	doc, err := LoadRawDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc["workload"].(map[string]any)["name"])
}

func TestLoadRawDocumentNotFound(t *testing.T) {
	_, err := LoadRawDocument(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, errors.Is(err, errUtils.ErrConfigNotFound))
}

func TestLoadRawDocumentInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdk.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := LoadRawDocument(path)
	assert.True(t, errors.Is(err, errUtils.ErrInvalidConfig))
}

func TestDecodeConfig(t *testing.T) {
	doc := map[string]any{
		"parameters": []any{
			map[string]any{"placeholder": "NAME", "env": "WORKLOAD_NAME", "parameter": "name"},
		},
		"workload": map[string]any{
			"name": "demo",
			"stacks": []any{
				map[string]any{
					"name": "bucket", "module": "bucket", "enabled": true,
					"config":      map[string]any{"versioned": true},
					"ssm_exports": map[string]any{"bucket_name": "auto"},
				},
			},
			"deployments": []any{
				map[string]any{"name": "dev", "mode": "stack", "stacks": []any{"bucket"}},
			},
		},
	}

	cfg, err := DecodeConfig(doc)
	require.NoError(t, err)
	require.Len(t, cfg.Parameters, 1)
	assert.Equal(t, "WORKLOAD_NAME", cfg.Parameters[0].EnvVar)
	require.Len(t, cfg.Workload.Stacks, 1)
	assert.Equal(t, "auto", cfg.Workload.Stacks[0].SSMExports["bucket_name"])
	assert.True(t, cfg.Workload.Stacks[0].IsEnabled())
	assert.Equal(t, []string{"bucket"}, cfg.Workload.Deployments[0].Stacks)
}

func TestDecodeConfigMissingEnabledMeansEnabled(t *testing.T) {
	cfg, err := DecodeConfig(map[string]any{
		"workload": map[string]any{
			"name":   "demo",
			"stacks": []any{map[string]any{"name": "bucket", "module": "bucket"}},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, cfg.Workload.Stacks[0].Enabled)
	assert.True(t, cfg.Workload.Stacks[0].IsEnabled())
}

func TestValidateWorkloadUniqueStackNames(t *testing.T) {
	workload := &schema.Workload{
		Stacks: []schema.Stack{{Name: "bucket"}, {Name: "site"}},
	}
	assert.NoError(t, ValidateWorkload(workload))

	workload.Stacks = append(workload.Stacks, schema.Stack{Name: "bucket"})
	err := ValidateWorkload(workload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrDuplicateStackName))
	assert.Contains(t, err.Error(), "bucket")
}

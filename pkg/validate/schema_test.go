package validate

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, jsoniter.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateConfigDocumentMinimal(t *testing.T) {
	doc := decode(t, `{
		"workload": {
			"name": "demo",
			"stacks": [{"name": "bucket", "module": "bucket"}]
		}
	}`)
	assert.NoError(t, ValidateConfigDocument(doc))
}

func TestValidateConfigDocumentFull(t *testing.T) {
	doc := decode(t, `{
		"parameters": [{"placeholder": "NAME", "env": "WORKLOAD_NAME", "parameter": "name"}],
		"workload": {
			"name": "demo",
			"devops": {"repository": "org/demo", "account": "111122223333", "region": "us-east-1"},
			"stacks": [{
				"name": "bucket", "module": "bucket", "enabled": true,
				"config": {"versioned": true},
				"accounts": [{"account": "111122223333", "config": {},
					"environments": [{"environment": "dev", "config": {}}]}],
				"ssm_exports": {"bucket_name": "auto"}
			}],
			"deployments": [{"name": "dev", "mode": "stack", "stacks": ["bucket"],
				"environment": "dev", "account": "111122223333", "region": "us-east-1"}],
			"pipelines": [{"name": "main", "branch": "main", "waves": ["one"],
				"stages": [{"name": "deploy", "wave": "one", "stacks": ["bucket"]}]}],
			"builds": [{"name": "assets", "wave": "one",
				"pre_steps": [{"name": "install", "commands": ["npm ci"]}]}]
		}
	}`)
	assert.NoError(t, ValidateConfigDocument(doc))
}

func TestValidateConfigDocumentMissingWorkload(t *testing.T) {
	err := ValidateConfigDocument(decode(t, `{"parameters": []}`))
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
}

func TestValidateConfigDocumentBadMode(t *testing.T) {
	doc := decode(t, `{
		"workload": {
			"name": "demo",
			"stacks": [{"name": "bucket", "module": "bucket"}],
			"deployments": [{"name": "dev", "mode": "sideways"}]
		}
	}`)
	assert.ErrorIs(t, ValidateConfigDocument(doc), errUtils.ErrInvalidConfig)
}

func TestValidateConfigDocumentStackRequiresModule(t *testing.T) {
	doc := decode(t, `{
		"workload": {"name": "demo", "stacks": [{"name": "bucket"}]}
	}`)
	assert.ErrorIs(t, ValidateConfigDocument(doc), errUtils.ErrInvalidConfig)
}

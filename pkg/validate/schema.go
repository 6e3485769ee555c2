package validate

import (
	_ "embed"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
)

//go:embed workload_schema.json
var workloadSchemaJSON string

var workloadSchema = jsonschema.MustCompileString("workload_schema.json", workloadSchemaJSON)

// ValidateConfigDocument validates a decoded configuration document against
// the embedded workload schema, before any typed decoding happens.
func ValidateConfigDocument(doc any) error {
	if err := workloadSchema.Validate(doc); err != nil {
		return errors.Wrapf(errUtils.ErrInvalidConfig, "%v", err)
	}
	return nil
}

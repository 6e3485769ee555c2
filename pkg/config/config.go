package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadRawDocument reads and parses the workload configuration file into an
// untyped tree. Placeholder resolution and schema validation operate on this
// raw tree before any typed decoding.
func LoadRawDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errUtils.ErrConfigNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "failed to read configuration file %s", path)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errUtils.ErrInvalidConfig, "%s: %v", path, err)
	}
	return doc, nil
}

// DecodeConfig decodes a resolved raw tree into the typed configuration.
func DecodeConfig(doc map[string]any) (*schema.Config, error) {
	var cfg schema.Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, errors.Wrapf(errUtils.ErrInvalidConfig, "%v", err)
	}
	return &cfg, nil
}

// ValidateWorkload checks workload-level invariants that the JSON schema
// cannot express: stack names must be unique.
func ValidateWorkload(workload *schema.Workload) error {
	seen := make(map[string]struct{}, len(workload.Stacks))
	for i := range workload.Stacks {
		name := workload.Stacks[i].Name
		if _, exists := seen[name]; exists {
			return errors.Wrapf(errUtils.ErrDuplicateStackName, "%s", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

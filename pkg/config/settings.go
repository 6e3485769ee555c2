package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/geekcafe/cdk-factory-sub001/pkg/store"
)

// Settings is the CLI configuration loaded from cdk-factory.yaml and
// CDK_FACTORY_* environment variables. It configures ambient concerns, not
// the workload itself.
type Settings struct {
	Logs  LogsSettings      `mapstructure:"logs"`
	Store store.StoreConfig `mapstructure:"store"`
}

// LogsSettings configures the logger.
type LogsSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// LoadSettings finds and merges CLI settings in the following order:
// built-in defaults, cdk-factory.yaml in the working directory, environment
// variables prefixed CDK_FACTORY_.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("cdk-factory")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("logs.level", "info")
	v.SetDefault("store.type", store.TypeInMemory)

	v.SetEnvPrefix("CDK_FACTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read settings file")
		}
		// No settings file is fine; defaults and env apply.
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal settings")
	}
	return &settings, nil
}

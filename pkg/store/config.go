package store

import "github.com/go-viper/mapstructure/v2"

// StoreConfig selects and configures one store backend.
type StoreConfig struct {
	Type    string         `json:"type" mapstructure:"type"`
	Options map[string]any `json:"options" mapstructure:"options"`
}

func parseOptions(options map[string]any, target any) error {
	return mapstructure.Decode(options, target)
}

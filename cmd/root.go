package cmd

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/internal/exec"
	"github.com/geekcafe/cdk-factory-sub001/pkg/config"
	log "github.com/geekcafe/cdk-factory-sub001/pkg/logger"
	"github.com/geekcafe/cdk-factory-sub001/pkg/store"
)

var settings *config.Settings

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "cdk-factory",
	Short: "Workload configuration resolution engine",
	Long: `cdk-factory resolves a declarative, templated workload configuration into
per-stack effective config blocks and an ordered execution plan for the
stack-synthesis layer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Do not silence usage or errors when help is invoked.
		isHelpRequested := cmd.Name() == "help" || cmd.Flags().Changed("help")
		if isHelpRequested {
			cmd.SilenceUsage = false
			cmd.SilenceErrors = false
		} else {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
		}

		var err error
		settings, err = config.LoadSettings()
		if err != nil {
			return err
		}

		level := settings.Logs.Level
		if flagLevel, _ := cmd.Flags().GetString("logs-level"); flagLevel != "" {
			level = flagLevel
		}
		return log.Default().SetLevelString(level)
	},
}

// Execute runs the root command and reports the process exit code.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("config", "cdk.json", "path to the workload configuration file")
	RootCmd.PersistentFlags().StringArray("context", nil, "context key=value pair for placeholder resolution (repeatable)")
	RootCmd.PersistentFlags().String("logs-level", "", "log level (debug, info, warn, error)")
}

// resolveOptionsFromFlags assembles resolution options shared by the
// subcommands that run the engine.
func resolveOptionsFromFlags(cmd *cobra.Command, deployment string) (*exec.ResolveOptions, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	contextValues, err := parseContextFlags(flags)
	if err != nil {
		return nil, err
	}

	st, err := store.NewStoreFromConfig(cmd.Context(), settings.Store)
	if err != nil {
		return nil, err
	}

	return &exec.ResolveOptions{
		ConfigPath: configPath,
		Deployment: deployment,
		Context:    contextValues,
		Store:      st,
	}, nil
}

func parseContextFlags(flags *pflag.FlagSet) (map[string]string, error) {
	pairs, err := flags.GetStringArray("context")
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Wrapf(errUtils.ErrInvalidConfig, "context pair %q is not key=value", pair)
		}
		values[key] = value
	}
	return values, nil
}

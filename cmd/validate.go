package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geekcafe/cdk-factory-sub001/pkg/config"
	"github.com/geekcafe/cdk-factory-sub001/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the workload configuration file against the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		doc, err := config.LoadRawDocument(configPath)
		if err != nil {
			return err
		}
		if err := validate.ValidateConfigDocument(any(doc)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", configPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}

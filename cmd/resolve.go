package cmd

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/geekcafe/cdk-factory-sub001/internal/exec"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <deployment>",
	Short: "Resolve the workload for a deployment and print the result",
	Long: `Resolve substitutes placeholders, merges account/environment overrides,
resolves cross-stack imports and prints the per-stack effective config blocks
together with the ordered execution plan as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptionsFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		result, err := exec.Resolve(cmd.Context(), opts)
		if err != nil {
			return err
		}

		output, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}

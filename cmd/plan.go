package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geekcafe/cdk-factory-sub001/internal/exec"
)

var planCmd = &cobra.Command{
	Use:   "plan <deployment>",
	Short: "Print the ordered execution plan for a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptionsFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		result, err := exec.Resolve(cmd.Context(), opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "deployment %s (mode %s)\n", result.Plan.Deployment, result.Plan.Mode)
		for i, group := range result.Plan.Groups {
			fmt.Fprintf(out, "%d. %s", i+1, group.Name)
			if group.Wave != "" {
				fmt.Fprintf(out, " [wave %s]", group.Wave)
			}
			if len(group.Stacks) > 0 {
				fmt.Fprintf(out, " stacks: %s", strings.Join(group.Stacks, ", "))
			}
			if len(group.Builds) > 0 {
				fmt.Fprintf(out, " builds: %s", strings.Join(group.Builds, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(planCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/geekcafe/cdk-factory-sub001/internal/exec"
)

var runCmd = &cobra.Command{
	Use:   "run <deployment>",
	Short: "Resolve a deployment and execute its build pre-steps",
	Long: `Run resolves the workload and walks the execution plan in order,
executing build pre-step commands. Stack groups are reported for the
synthesis layer; provisioning is not performed here.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptionsFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		result, err := exec.Resolve(cmd.Context(), opts)
		if err != nil {
			return err
		}

		return exec.ExecutePlan(cmd.Context(), &result.Config.Workload, result.Plan, dryRun)
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "print build commands without executing them")
	RootCmd.AddCommand(runCmd)
}

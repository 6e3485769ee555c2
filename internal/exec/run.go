package exec

import (
	"context"
	"os"
	osexec "os/exec"

	"github.com/cockroachdb/errors"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	log "github.com/geekcafe/cdk-factory-sub001/pkg/logger"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
)

// ExecutePlan walks the plan's groups in order and runs build pre-steps.
// Stack groups are not provisioned here; they are logged for the external
// synthesis collaborator. A failing command aborts the remaining commands of
// its step, the stage, and the pipeline.
func ExecutePlan(ctx context.Context, workload *schema.Workload, plan *Plan, dryRun bool) error {
	for _, group := range plan.Groups {
		if len(group.Stacks) > 0 {
			log.Info("stack group handed to synthesis", "group", group.Name, "stacks", group.Stacks)
		}
		for _, buildName := range group.Builds {
			build := workload.BuildByName(buildName)
			if build == nil {
				// BuildPlan validated references; reaching here means the
				// workload was mutated after planning.
				return errors.Wrapf(errUtils.ErrInternalConsistency, "build %s vanished after planning", buildName)
			}
			if err := executeBuild(ctx, build, group.Name, dryRun); err != nil {
				return err
			}
		}
	}
	return nil
}

func executeBuild(ctx context.Context, build *schema.Build, groupName string, dryRun bool) error {
	for _, step := range build.PreSteps {
		for _, command := range step.Commands {
			if dryRun {
				log.Info("dry run", "build", build.Name, "step", step.Name, "command", command)
				continue
			}

			log.Debug("running build command", "build", build.Name, "step", step.Name, "command", command)
			cmd := osexec.CommandContext(ctx, "sh", "-c", command)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				return errors.Wrapf(errUtils.ErrBuildStepFailed,
					"build %s step %s group %s command %q: %v", build.Name, step.Name, groupName, command, err)
			}
		}
	}
	return nil
}

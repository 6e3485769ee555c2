package exec

import (
	"sort"

	"github.com/cockroachdb/errors"

	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
)

// Group is one execution group of the plan: stacks and/or builds that may be
// processed together.
type Group struct {
	Name   string   `json:"name"`
	Wave   string   `json:"wave,omitempty"`
	Stacks []string `json:"stacks,omitempty"`
	Builds []string `json:"builds,omitempty"`
}

// Plan is the ordered execution plan handed to the synthesis collaborator.
type Plan struct {
	Deployment string  `json:"deployment"`
	Mode       string  `json:"mode"`
	Groups     []Group `json:"groups"`
}

// BuildPlan expands the named deployment into an ordered execution plan.
//
// mode=stack produces a single group with the deployment's stacks in listed
// order. mode=pipeline expands the named pipeline's stages in declaration
// order; a declared wave list reorders stage groups authoritatively, stable
// within a wave, with unwaved stages following in declaration order.
func BuildPlan(workload *schema.Workload, deploymentName string) (*Plan, error) {
	deployment := workload.DeploymentByName(deploymentName)
	if deployment == nil {
		return nil, errors.Wrapf(errUtils.ErrUnresolvedReference, "deployment %s", deploymentName)
	}
	if !deployment.IsEnabled() {
		return nil, errors.Wrapf(errUtils.ErrDisabledDependency, "deployment %s is disabled", deploymentName)
	}

	switch deployment.Mode {
	case schema.DeploymentModeStack:
		return buildStackPlan(workload, deployment)
	case schema.DeploymentModePipeline:
		return buildPipelinePlan(workload, deployment)
	default:
		return nil, errors.Wrapf(errUtils.ErrInvalidMode, "deployment %s mode %q", deploymentName, deployment.Mode)
	}
}

func buildStackPlan(workload *schema.Workload, deployment *schema.Deployment) (*Plan, error) {
	if err := checkStackRefs(workload, deployment.Stacks, "deployment "+deployment.Name); err != nil {
		return nil, err
	}

	return &Plan{
		Deployment: deployment.Name,
		Mode:       schema.DeploymentModeStack,
		Groups: []Group{{
			Name:   deployment.Name,
			Stacks: deployment.Stacks,
		}},
	}, nil
}

func buildPipelinePlan(workload *schema.Workload, deployment *schema.Deployment) (*Plan, error) {
	if deployment.Pipeline == "" {
		return nil, errors.Wrapf(errUtils.ErrUnresolvedReference,
			"deployment %s has mode pipeline but names no pipeline", deployment.Name)
	}

	pipeline := workload.PipelineByName(deployment.Pipeline)
	if pipeline == nil {
		return nil, errors.Wrapf(errUtils.ErrUnresolvedReference,
			"pipeline %s referenced by deployment %s", deployment.Pipeline, deployment.Name)
	}
	if !pipeline.IsEnabled() {
		return nil, errors.Wrapf(errUtils.ErrDisabledDependency,
			"pipeline %s referenced by deployment %s is disabled", pipeline.Name, deployment.Name)
	}

	stages, err := orderStages(pipeline)
	if err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(stages))
	for _, stage := range stages {
		container := "pipeline " + pipeline.Name + " stage " + stage.Name
		if err := checkStackRefs(workload, stage.Stacks, container); err != nil {
			return nil, err
		}
		if err := checkBuildRefs(workload, stage.Builds, container); err != nil {
			return nil, err
		}
		groups = append(groups, Group{
			Name:   stage.Name,
			Wave:   stage.Wave,
			Stacks: stage.Stacks,
			Builds: stage.Builds,
		})
	}

	return &Plan{
		Deployment: deployment.Name,
		Mode:       schema.DeploymentModePipeline,
		Groups:     groups,
	}, nil
}

// orderStages applies the pipeline's wave ordering. Wave order is
// authoritative over declaration order; stages without a wave keep their
// declaration order after all waved stages. A stage naming a wave absent from
// the declared list is an unresolved reference.
func orderStages(pipeline *schema.Pipeline) ([]schema.Stage, error) {
	if len(pipeline.Waves) == 0 {
		return pipeline.Stages, nil
	}

	waveIndex := waveIndices(pipeline.Waves)

	for _, stage := range pipeline.Stages {
		if stage.Wave == "" {
			continue
		}
		if _, declared := waveIndex[stage.Wave]; !declared {
			return nil, errors.Wrapf(errUtils.ErrUnresolvedReference,
				"wave %s referenced by stage %s in pipeline %s", stage.Wave, stage.Name, pipeline.Name)
		}
	}

	ordered := make([]schema.Stage, len(pipeline.Stages))
	copy(ordered, pipeline.Stages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return stageRank(&ordered[i], waveIndex) < stageRank(&ordered[j], waveIndex)
	})
	return ordered, nil
}

func waveIndices(waves []string) map[string]int {
	index := make(map[string]int, len(waves))
	for i, wave := range waves {
		index[wave] = i
	}
	return index
}

// stageRank sorts waved stages by wave position and unwaved stages last.
func stageRank(stage *schema.Stage, waveIndex map[string]int) int {
	if stage.Wave == "" {
		return len(waveIndex)
	}
	return waveIndex[stage.Wave]
}

func checkStackRefs(workload *schema.Workload, names []string, container string) error {
	for _, name := range names {
		stack := workload.StackByName(name)
		if stack == nil {
			return errors.Wrapf(errUtils.ErrUnresolvedReference,
				"stack %s referenced by %s", name, container)
		}
		if !stack.IsEnabled() {
			return errors.Wrapf(errUtils.ErrDisabledDependency,
				"stack %s referenced by %s is disabled", name, container)
		}
	}
	return nil
}

func checkBuildRefs(workload *schema.Workload, names []string, container string) error {
	for _, name := range names {
		build := workload.BuildByName(name)
		if build == nil {
			return errors.Wrapf(errUtils.ErrUnresolvedReference,
				"build %s referenced by %s", name, container)
		}
		if !build.IsEnabled() {
			return errors.Wrapf(errUtils.ErrDisabledDependency,
				"build %s referenced by %s is disabled", name, container)
		}
	}
	return nil
}

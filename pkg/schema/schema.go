package schema

// Config is the root of a workload configuration file after placeholder
// resolution. The `parameters` section drives placeholder substitution; the
// `workload` section describes everything the synthesis layer consumes.
type Config struct {
	Parameters []ParameterDefinition `json:"parameters" mapstructure:"parameters"`
	Workload   Workload              `json:"workload" mapstructure:"workload"`
}

// ParameterDefinition maps a template token to its resolution source.
// Exactly one of Value/EnvVar is typically set; when both are present the
// literal value wins.
type ParameterDefinition struct {
	Placeholder string `json:"placeholder" mapstructure:"placeholder"`
	EnvVar      string `json:"env" mapstructure:"env"`
	Value       string `json:"value" mapstructure:"value"`
	// Parameter is the underlying parameter name CLI context values address.
	Parameter string `json:"parameter" mapstructure:"parameter"`
}

// Workload is the top-level named collection of stacks, deployments,
// pipelines and builds being resolved. Immutable after resolution.
type Workload struct {
	Name        string       `json:"name" mapstructure:"name"`
	Description string       `json:"description" mapstructure:"description"`
	DevOps      DevOps       `json:"devops" mapstructure:"devops"`
	Stacks      []Stack      `json:"stacks" mapstructure:"stacks"`
	Deployments []Deployment `json:"deployments" mapstructure:"deployments"`
	Pipelines   []Pipeline   `json:"pipelines" mapstructure:"pipelines"`
	Builds      []Build      `json:"builds" mapstructure:"builds"`
}

// DevOps carries source-repository and default target metadata.
type DevOps struct {
	Repository string `json:"repository" mapstructure:"repository"`
	Account    string `json:"account" mapstructure:"account"`
	Region     string `json:"region" mapstructure:"region"`
}

// Stack is one named, modular unit of infrastructure configuration.
// Config is opaque to the engine except for override merging and import
// injection.
type Stack struct {
	Name        string            `json:"name" mapstructure:"name"`
	Module      string            `json:"module" mapstructure:"module"`
	Enabled     *bool             `json:"enabled" mapstructure:"enabled"`
	Account     string            `json:"account" mapstructure:"account"`
	Environment string            `json:"environment" mapstructure:"environment"`
	Config      map[string]any    `json:"config" mapstructure:"config"`
	Accounts    []AccountOverride `json:"accounts" mapstructure:"accounts"`
	SSMExports  map[string]string `json:"ssm_exports" mapstructure:"ssm_exports"`
	SSMImports  map[string]string `json:"ssm_imports" mapstructure:"ssm_imports"`
}

// IsEnabled reports whether the stack participates in resolution.
// A missing flag means enabled.
func (s *Stack) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// AccountOverride is a partial config block scoped to one account id,
// optionally refined further per environment.
type AccountOverride struct {
	Account      string                `json:"account" mapstructure:"account"`
	Config       map[string]any        `json:"config" mapstructure:"config"`
	Environments []EnvironmentOverride `json:"environments" mapstructure:"environments"`
}

// EnvironmentOverride is a partial config block scoped to one environment
// within an account override.
type EnvironmentOverride struct {
	Environment string         `json:"environment" mapstructure:"environment"`
	Config      map[string]any `json:"config" mapstructure:"config"`
}

// Deployment modes.
const (
	DeploymentModeStack    = "stack"
	DeploymentModePipeline = "pipeline"
)

// Deployment is a named target (account/region/environment) plus the stacks
// or pipeline to run against it. Mode selects which of Stacks/Pipeline is
// meaningful; the other is ignored.
type Deployment struct {
	Name        string   `json:"name" mapstructure:"name"`
	Environment string   `json:"environment" mapstructure:"environment"`
	Account     string   `json:"account" mapstructure:"account"`
	Region      string   `json:"region" mapstructure:"region"`
	Mode        string   `json:"mode" mapstructure:"mode"`
	Stacks      []string `json:"stacks" mapstructure:"stacks"`
	Pipeline    string   `json:"pipeline" mapstructure:"pipeline"`
	Enabled     *bool    `json:"enabled" mapstructure:"enabled"`
}

// IsEnabled reports whether the deployment participates in resolution.
func (d *Deployment) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// Pipeline is an ordered set of stages, optionally grouped into named waves
// establishing stage ordering, executed by a CI-style apply process.
type Pipeline struct {
	Name    string   `json:"name" mapstructure:"name"`
	Branch  string   `json:"branch" mapstructure:"branch"`
	Enabled *bool    `json:"enabled" mapstructure:"enabled"`
	Waves   []string `json:"waves" mapstructure:"waves"`
	Stages  []Stage  `json:"stages" mapstructure:"stages"`
}

// IsEnabled reports whether the pipeline participates in resolution.
func (p *Pipeline) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Stage names either stacks or builds to process together, optionally
// assigned to a wave.
type Stage struct {
	Name   string   `json:"name" mapstructure:"name"`
	Wave   string   `json:"wave" mapstructure:"wave"`
	Stacks []string `json:"stacks" mapstructure:"stacks"`
	Builds []string `json:"builds" mapstructure:"builds"`
}

// Build is a named set of pre-steps executed before synthesis.
type Build struct {
	Name     string `json:"name" mapstructure:"name"`
	Enabled  *bool  `json:"enabled" mapstructure:"enabled"`
	Wave     string `json:"wave" mapstructure:"wave"`
	PreSteps []Step `json:"pre_steps" mapstructure:"pre_steps"`
}

// IsEnabled reports whether the build participates in resolution.
func (b *Build) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

// Step is a named list of shell commands executed in listed order.
type Step struct {
	Name     string   `json:"name" mapstructure:"name"`
	Commands []string `json:"commands" mapstructure:"commands"`
}

// StackByName returns the stack with the given name, or nil.
func (w *Workload) StackByName(name string) *Stack {
	for i := range w.Stacks {
		if w.Stacks[i].Name == name {
			return &w.Stacks[i]
		}
	}
	return nil
}

// DeploymentByName returns the deployment with the given name, or nil.
func (w *Workload) DeploymentByName(name string) *Deployment {
	for i := range w.Deployments {
		if w.Deployments[i].Name == name {
			return &w.Deployments[i]
		}
	}
	return nil
}

// PipelineByName returns the pipeline with the given name, or nil.
func (w *Workload) PipelineByName(name string) *Pipeline {
	for i := range w.Pipelines {
		if w.Pipelines[i].Name == name {
			return &w.Pipelines[i]
		}
	}
	return nil
}

// BuildByName returns the build with the given name, or nil.
func (w *Workload) BuildByName(name string) *Build {
	for i := range w.Builds {
		if w.Builds[i].Name == name {
			return &w.Builds[i]
		}
	}
	return nil
}

package workflow

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// State bag keys shared across graph nodes.
const (
	KeyGenerationID = "generation_id"
	KeyPrompt       = "prompt"
	KeyOptions      = "options"
	KeyKnowledge    = "knowledge_context"
	KeyGenState     = "generation_state"
)

// Target identifies the deployment environment for generated instructions.
type Target string

// Deployment targets for the finalize stage.
const (
	TargetLocal  Target = "local"
	TargetDocker Target = "docker"
	TargetAWS    Target = "aws"
	TargetGCP    Target = "gcp"
)

var targets = []Target{TargetLocal, TargetDocker, TargetAWS, TargetGCP}

// Targets returns all valid deployment targets.
func Targets() []Target {
	return slices.Clone(targets)
}

// UnmarshalJSON validates that the decoded value is a recognized target.
// An empty string is accepted and later normalized to TargetLocal.
func (t *Target) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed := Target(raw)
	if parsed != "" && !slices.Contains(targets, parsed) {
		return ErrInvalidTarget
	}

	*t = parsed
	return nil
}

// Options control which stages run and how generated output is shaped.
type Options struct {
	UseWorkflow  bool   `json:"use_workflow"`
	IncludeTests bool   `json:"include_tests"`
	UseKnowledge bool   `json:"use_knowledge"`
	Review       bool   `json:"review"`
	Deployment   Target `json:"deployment"`
}

// Normalize fills unset fields with their defaults.
func (o *Options) Normalize() {
	if o.Deployment == "" {
		o.Deployment = TargetLocal
	}
}

// AgentSpec describes a single agent extracted from the requirement.
type AgentSpec struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Tools   []string `json:"tools"`
}

// WorkflowPlan describes the processing steps the application performs.
type WorkflowPlan struct {
	Steps        []string `json:"steps"`
	Dependencies []string `json:"dependencies"`
}

// UIPlan describes the interface elements the application needs.
type UIPlan struct {
	Components []string `json:"components"`
	Layouts    []string `json:"layouts"`
}

// AppSpec is the structured application specification produced by the
// analyze stage and consumed by every code generation stage after it.
type AppSpec struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Agents       []AgentSpec  `json:"agents"`
	Workflow     WorkflowPlan `json:"workflow"`
	UI           UIPlan       `json:"ui"`
	Integrations []string     `json:"integrations"`
}

// GenerationState holds the running output accumulated across stages.
// Files maps flat filenames to complete file contents.
type GenerationState struct {
	Spec       AppSpec           `json:"spec"`
	Files      map[string]string `json:"files"`
	Deployment string            `json:"deployment,omitempty"`
}

// Result is the final output from a generation workflow execution.
type Result struct {
	GenerationID uuid.UUID         `json:"generation_id"`
	Spec         AppSpec           `json:"spec"`
	Files        map[string]string `json:"files"`
	Deployment   string            `json:"deployment"`
	CompletedAt  time.Time         `json:"completed_at"`
}

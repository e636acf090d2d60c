package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents a workflow stage that a prompt override targets.
type Stage string

// Valid workflow stages.
const (
	StageAnalyze  Stage = "analyze"
	StageAgents   Stage = "agents"
	StageWorkflow Stage = "workflow"
	StageUI       Stage = "ui"
	StageReview   Stage = "review"
	StageDeploy   Stage = "deploy"
)

var stages = []Stage{
	StageAnalyze,
	StageAgents,
	StageWorkflow,
	StageUI,
	StageReview,
	StageDeploy,
}

// Stages returns the list of valid workflow stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known workflow stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// Package workflow implements the generation pipeline for Foundry.
// It provides foundational types, prompt composition, and the state graph
// (init → analyze → agents → workflow? → ui → review? → finalize) that
// turns a free-text requirement into a complete agent application.
package workflow

import "errors"

// Sentinel errors for workflow stages.
var (
	ErrInitFailed     = errors.New("initialization failed")
	ErrAnalyzeFailed  = errors.New("specification analysis failed")
	ErrAgentsFailed   = errors.New("agent code generation failed")
	ErrWorkflowFailed = errors.New("workflow code generation failed")
	ErrUIFailed       = errors.New("ui code generation failed")
	ErrReviewFailed   = errors.New("code review failed")
	ErrDeployFailed   = errors.New("deployment instruction generation failed")
	ErrInvalidTarget  = errors.New("deployment target must be local, docker, aws, or gcp")
)

package workflow

import (
	"context"
	"fmt"
	"maps"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/foundry/internal/prompts"
)

// WorkflowNode returns a state node that generates durable-workflow
// orchestration code from the specification and the agent modules already
// in the state bag. Runs only when the generation requests workflow
// orchestration.
func WorkflowNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := genStateFrom(s, ErrWorkflowFailed)
		if err != nil {
			return s, fmt.Errorf("workflow: %w", err)
		}

		files, err := generateOrchestration(ctx, rt, cs)
		if err != nil {
			return s, fmt.Errorf("workflow: %w", err)
		}

		maps.Copy(cs.Files, files)

		rt.Logger.InfoContext(
			ctx, "workflow node complete",
			"files", len(files),
		)

		s = s.Set(KeyGenState, *cs)
		return s, nil
	})
}

func generateOrchestration(
	ctx context.Context,
	rt *Runtime,
	cs *GenerationState,
) (map[string]string, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageWorkflow, cs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkflowFailed, err)
	}

	files, err := generateFiles(ctx, rt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkflowFailed, err)
	}

	return files, nil
}

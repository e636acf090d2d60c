package workflow

import (
	"context"
	"fmt"
	"maps"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/foundry/internal/prompts"
)

// UINode returns a state node that generates the user interface layer.
// The composed prompt carries the full generation state so the script can
// import and invoke the agent and workflow modules generated before it.
func UINode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := genStateFrom(s, ErrUIFailed)
		if err != nil {
			return s, fmt.Errorf("ui: %w", err)
		}

		files, err := generateUI(ctx, rt, cs)
		if err != nil {
			return s, fmt.Errorf("ui: %w", err)
		}

		maps.Copy(cs.Files, files)

		rt.Logger.InfoContext(
			ctx, "ui node complete",
			"files", len(files),
		)

		s = s.Set(KeyGenState, *cs)
		return s, nil
	})
}

func generateUI(ctx context.Context, rt *Runtime, cs *GenerationState) (map[string]string, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageUI, cs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUIFailed, err)
	}

	files, err := generateFiles(ctx, rt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUIFailed, err)
	}

	return files, nil
}

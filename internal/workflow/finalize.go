package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/foundry/internal/prompts"
	"github.com/JaimeStill/foundry/pkg/formatting"
)

// FinalizeNode returns a state node that composes deployment instructions
// for the selected target. The deploy prompt carries the specification and
// the generated filenames, not file contents; the response is markdown
// used as-is.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := genStateFrom(s, ErrDeployFailed)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		opts, err := optionsFrom(s, ErrDeployFailed)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		deployment, err := composeDeployment(ctx, rt, opts.Deployment, cs)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		cs.Deployment = deployment

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"target", opts.Deployment,
			"files", len(cs.Files),
		)

		s = s.Set(KeyGenState, *cs)
		return s, nil
	})
}

func composeDeployment(
	ctx context.Context,
	rt *Runtime,
	target Target,
	cs *GenerationState,
) (string, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageDeploy, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDeployFailed, err)
	}

	specJSON, err := json.MarshalIndent(cs.Spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: serialize spec: %w", ErrDeployFailed, err)
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nApplication specification:\n\n")
	sb.Write(specJSON)
	sb.WriteString("\n\nGenerated files: ")
	sb.WriteString(strings.Join(slices.Sorted(maps.Keys(cs.Files)), ", "))
	sb.WriteString("\n\nDeployment target: ")
	sb.WriteString(string(target))

	a, err := agent.New(&rt.Agent)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrDeployFailed, err)
	}

	resp, err := a.Chat(ctx, sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: chat call: %w", ErrDeployFailed, err)
	}

	return formatting.StripFence(resp.Content()), nil
}

package workflow

import (
	"context"
	"fmt"
	"maps"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/foundry/internal/prompts"
)

const testsDirective = "\n\nThis run requests tests: include a \"test_agents.py\" " +
	"module exercising each agent's processing logic."

// AgentsNode returns a state node that generates the agent framework code
// from the application specification: one module per agent plus a shared
// tools module, and a test module when the run requests tests.
func AgentsNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := genStateFrom(s, ErrAgentsFailed)
		if err != nil {
			return s, fmt.Errorf("agents: %w", err)
		}

		opts, err := optionsFrom(s, ErrAgentsFailed)
		if err != nil {
			return s, fmt.Errorf("agents: %w", err)
		}

		files, err := generateAgents(ctx, rt, opts, cs)
		if err != nil {
			return s, fmt.Errorf("agents: %w", err)
		}

		maps.Copy(cs.Files, files)

		rt.Logger.InfoContext(
			ctx, "agents node complete",
			"files", len(files),
		)

		s = s.Set(KeyGenState, *cs)
		return s, nil
	})
}

func generateAgents(
	ctx context.Context,
	rt *Runtime,
	opts Options,
	cs *GenerationState,
) (map[string]string, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageAgents, cs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAgentsFailed, err)
	}

	if opts.IncludeTests {
		prompt += testsDirective
	}

	files, err := generateFiles(ctx, rt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAgentsFailed, err)
	}

	return files, nil
}

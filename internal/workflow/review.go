package workflow

import (
	"context"
	"fmt"
	"maps"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/foundry/internal/prompts"
	"github.com/JaimeStill/foundry/pkg/formatting"
)

// ReviewNode returns a state node that performs an LLM critique and repair
// pass over every generated file. Corrected files replace the originals
// only when the response parses; an unusable response keeps the originals
// and the run continues.
func ReviewNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := genStateFrom(s, ErrReviewFailed)
		if err != nil {
			return s, fmt.Errorf("review: %w", err)
		}

		if err := reviewFiles(ctx, rt, cs); err != nil {
			return s, fmt.Errorf("review: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "review node complete",
			"files", len(cs.Files),
		)

		s = s.Set(KeyGenState, *cs)
		return s, nil
	})
}

func reviewFiles(ctx context.Context, rt *Runtime, cs *GenerationState) error {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageReview, cs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReviewFailed, err)
	}

	a, err := agent.New(&rt.Agent)
	if err != nil {
		return fmt.Errorf("%w: create agent: %w", ErrReviewFailed, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return fmt.Errorf("%w: chat call: %w", ErrReviewFailed, err)
	}

	parsed, err := formatting.Parse[filesResponse](resp.Content())
	if err != nil || len(parsed.Files) == 0 {
		rt.Logger.WarnContext(
			ctx, "unusable review response, keeping original files",
			"error", err,
		)
		return nil
	}

	// Corrected files replace originals by name; files the reviewer
	// omitted are kept as generated.
	maps.Copy(cs.Files, parsed.Files)
	return nil
}

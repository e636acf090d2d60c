package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/foundry/internal/prompts"
)

// ComposePrompt builds a stage prompt by combining tunable instructions,
// immutable output specifications, and the running generation state. When
// state is nil (analyze and deploy compose their own payloads), the prompt
// contains only instructions and spec.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	state *GenerationState,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if state != nil {
		stateJSON, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize generation state: %w", err)
		}

		sb.WriteString("\n\nCurrent generation state:\n\n")
		sb.WriteString(string(stateJSON))
	}

	return sb.String(), nil
}

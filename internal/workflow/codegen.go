package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/foundry/pkg/formatting"
)

// filesResponse is the shared output contract for the code generation
// stages: a map of flat filenames to complete file contents.
type filesResponse struct {
	Files map[string]string `json:"files"`
}

// generateFiles performs a single Chat inference and parses the response
// as a file map. Callers wrap returned errors with their stage sentinel.
func generateFiles(ctx context.Context, rt *Runtime, prompt string) (map[string]string, error) {
	a, err := agent.New(&rt.Agent)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[filesResponse](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(parsed.Files) == 0 {
		return nil, fmt.Errorf("response contained no files")
	}

	return parsed.Files, nil
}

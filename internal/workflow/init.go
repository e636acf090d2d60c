package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const knowledgeLimit = 5

// InitNode returns a state node that seeds the generation state bag and,
// when knowledge augmentation is requested, performs a similarity search
// against the knowledge base to build a context block for the analyze
// stage. Search failures degrade to a run without context rather than
// failing the generation.
func InitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		prompt, err := requirementFrom(s, ErrInitFailed)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		opts, err := optionsFrom(s, ErrInitFailed)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		knowledge := ""
		if opts.UseKnowledge {
			knowledge = searchKnowledge(ctx, rt, prompt)
		}

		rt.Logger.InfoContext(
			ctx, "init node complete",
			"knowledge_context", knowledge != "",
			"target", opts.Deployment,
		)

		s = s.Set(KeyKnowledge, knowledge)
		s = s.Set(KeyGenState, GenerationState{Files: map[string]string{}})

		return s, nil
	})
}

func searchKnowledge(ctx context.Context, rt *Runtime, query string) string {
	results, err := rt.Knowledge.Search(ctx, query, knowledgeLimit)
	if err != nil {
		rt.Logger.WarnContext(
			ctx, "knowledge search failed, continuing without context",
			"error", err,
		)
		return ""
	}

	if len(results) == 0 {
		return ""
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}

	var sb strings.Builder
	sb.WriteString("\n\n--- Relevant Knowledge Base Content ---\n")
	sb.WriteString(strings.Join(contents, "\n---\n"))
	sb.WriteString("\n--------------------------------------\n")

	return sb.String()
}

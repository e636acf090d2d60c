package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/foundry/internal/prompts"
	"github.com/JaimeStill/foundry/pkg/formatting"
)

const fallbackDescriptionLimit = 100

// AnalyzeNode returns a state node that turns the free-text requirement
// into a structured AppSpec via a single Chat inference. Unparseable model
// output degrades to FallbackSpec rather than failing the run.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := genStateFrom(s, ErrAnalyzeFailed)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		requirement, err := requirementFrom(s, ErrAnalyzeFailed)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		spec, err := analyzeRequirement(ctx, rt, requirement, knowledgeFrom(s))
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		cs.Spec = *spec

		rt.Logger.InfoContext(
			ctx, "analyze node complete",
			"app", spec.Name,
			"agents", len(spec.Agents),
		)

		s = s.Set(KeyGenState, *cs)
		return s, nil
	})
}

func analyzeRequirement(
	ctx context.Context,
	rt *Runtime,
	requirement string,
	knowledge string,
) (*AppSpec, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageAnalyze, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalyzeFailed, err)
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nApplication request:\n\n")
	sb.WriteString(requirement)
	sb.WriteString(knowledge)

	a, err := agent.New(&rt.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrAnalyzeFailed, err)
	}

	resp, err := a.Chat(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: chat call: %w", ErrAnalyzeFailed, err)
	}

	parsed, err := formatting.Parse[AppSpec](resp.Content())
	if err != nil || len(parsed.Agents) == 0 {
		rt.Logger.WarnContext(
			ctx, "unusable specification response, using fallback spec",
			"error", err,
		)
		fallback := FallbackSpec(requirement)
		return &fallback, nil
	}

	return &parsed, nil
}

// FallbackSpec builds the minimal application specification used when the
// model returns output that cannot be parsed into an AppSpec: a single
// general-purpose agent, a linear workflow, and a basic form UI.
func FallbackSpec(requirement string) AppSpec {
	return AppSpec{
		Name:        "Generated App",
		Description: truncate(requirement, fallbackDescriptionLimit),
		Agents: []AgentSpec{
			{
				Name:    "DefaultAgent",
				Purpose: "Process user requests",
				Tools:   []string{"basic_tools"},
			},
		},
		Workflow: WorkflowPlan{
			Steps:        []string{"initialize", "process", "complete"},
			Dependencies: []string{},
		},
		UI: UIPlan{
			Components: []string{"basic_form"},
			Layouts:    []string{"single_column"},
		},
		Integrations: []string{},
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

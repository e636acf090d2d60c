package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the generation workflow for a single requirement. It builds
// the state graph (init → analyze → agents → workflow? → ui → review? →
// finalize), executes it with the requirement and normalized options seeded
// into the state bag, and extracts the Result from the final state.
func Execute(
	ctx context.Context,
	rt *Runtime,
	generationID uuid.UUID,
	prompt string,
	opts Options,
) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	opts.Normalize()

	initialState := state.New(nil)
	initialState = initialState.Set(KeyGenerationID, generationID)
	initialState = initialState.Set(KeyPrompt, prompt)
	initialState = initialState.Set(KeyOptions, opts)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("foundry-generate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", InitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("agents", AgentsNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("workflow", WorkflowNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("ui", UINode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("review", ReviewNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// init → analyze → agents (unconditional)
	if err := graph.AddEdge("init", "analyze", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("analyze", "agents", nil); err != nil {
		return nil, err
	}

	// agents → workflow (when orchestration requested), else straight to ui
	if err := graph.AddEdge("agents", "workflow", wantsWorkflow); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("agents", "ui", state.Not(wantsWorkflow)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("workflow", "ui", nil); err != nil {
		return nil, err
	}

	// ui → review (when review requested), else straight to finalize
	if err := graph.AddEdge("ui", "review", wantsReview); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("ui", "finalize", state.Not(wantsReview)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("review", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*Result, error) {
	val, ok := s.Get(KeyGenState)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyGenState)
	}

	cs, ok := val.(GenerationState)
	if !ok {
		return nil, fmt.Errorf("%s is not GenerationState", KeyGenState)
	}

	genIDVal, ok := s.Get(KeyGenerationID)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyGenerationID)
	}

	generationID, ok := genIDVal.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("%s is not uuid.UUID", KeyGenerationID)
	}

	return &Result{
		GenerationID: generationID,
		Spec:         cs.Spec,
		Files:        cs.Files,
		Deployment:   cs.Deployment,
		CompletedAt:  time.Now(),
	}, nil
}

func wantsWorkflow(s state.State) bool {
	opts, ok := rawOptions(s)
	if !ok {
		return false
	}
	return opts.UseWorkflow
}

func wantsReview(s state.State) bool {
	opts, ok := rawOptions(s)
	if !ok {
		return false
	}
	return opts.Review
}

func rawOptions(s state.State) (Options, bool) {
	val, ok := s.Get(KeyOptions)
	if !ok {
		return Options{}, false
	}

	opts, ok := val.(Options)
	return opts, ok
}

func genStateFrom(s state.State, sentinel error) (*GenerationState, error) {
	val, ok := s.Get(KeyGenState)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", sentinel, KeyGenState)
	}

	cs, ok := val.(GenerationState)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not GenerationState", sentinel, KeyGenState)
	}

	return &cs, nil
}

func optionsFrom(s state.State, sentinel error) (Options, error) {
	val, ok := s.Get(KeyOptions)
	if !ok {
		return Options{}, fmt.Errorf("%w: missing %s in state", sentinel, KeyOptions)
	}

	opts, ok := val.(Options)
	if !ok {
		return Options{}, fmt.Errorf("%w: %s is not Options", sentinel, KeyOptions)
	}

	return opts, nil
}

func requirementFrom(s state.State, sentinel error) (string, error) {
	val, ok := s.Get(KeyPrompt)
	if !ok {
		return "", fmt.Errorf("%w: missing %s in state", sentinel, KeyPrompt)
	}

	prompt, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not string", sentinel, KeyPrompt)
	}

	return prompt, nil
}

func knowledgeFrom(s state.State) string {
	val, ok := s.Get(KeyKnowledge)
	if !ok {
		return ""
	}

	knowledge, ok := val.(string)
	if !ok {
		return ""
	}

	return knowledge
}

package api

import (
	"fmt"

	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/internal/generations"
	"github.com/JaimeStill/foundry/internal/knowledge"
	"github.com/JaimeStill/foundry/internal/projects"
	"github.com/JaimeStill/foundry/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Generations generations.System
	Projects    projects.System
	Knowledge   knowledge.System
	Prompts     prompts.System
}

// NewDomain creates all domain systems from the API runtime. The embedding
// client is closed with the rest of the service on shutdown.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	embedder, err := knowledge.NewGeminiEmbedder(
		runtime.Lifecycle.Context(),
		cfg.Embeddings.APIKey,
		cfg.Embeddings.Model,
		cfg.Embeddings.Dimensions,
	)
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}

	runtime.Lifecycle.OnShutdown(func() {
		<-runtime.Lifecycle.Context().Done()
		if err := embedder.Close(); err != nil {
			runtime.Logger.Warn("embedder close failed", "error", err)
		}
	})

	knowledgeSystem := knowledge.New(
		runtime.Database.Connection(),
		embedder,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	projectsSystem := projects.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	generationsSystem := generations.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Logger,
		runtime.Pagination,
		runtime.Queue,
		knowledgeSystem,
		promptsSystem,
		projectsSystem,
	)

	return &Domain{
		Generations: generationsSystem,
		Projects:    projectsSystem,
		Knowledge:   knowledgeSystem,
		Prompts:     promptsSystem,
	}, nil
}

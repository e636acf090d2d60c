package workflow

import (
	"log/slog"

	"github.com/JaimeStill/foundry/internal/knowledge"
	"github.com/JaimeStill/foundry/internal/prompts"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Agent     gaconfig.AgentConfig
	Knowledge knowledge.System
	Prompts   prompts.System
	Logger    *slog.Logger
}

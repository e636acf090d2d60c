// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/internal/infrastructure"
	"github.com/JaimeStill/foundry/pkg/middleware"
	"github.com/JaimeStill/foundry/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware,
// and starts the queue consumer that drives generation tasks.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, fmt.Errorf("domain init failed: %w", err)
	}

	specBytes, err := buildSpec(cfg)
	if err != nil {
		return nil, fmt.Errorf("openapi spec failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, specBytes)

	startConsumer(runtime, domain, cfg.Queue.Workers)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}

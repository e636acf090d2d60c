package api

import (
	"net/http"

	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/pkg/openapi"
	"github.com/JaimeStill/foundry/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	specBytes []byte,
) {
	routes.Register(
		mux,
		domain.Generations.Handler().Routes(),
		domain.Projects.Handler().Routes(),
		domain.Knowledge.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger, cfg.Storage.MaxListSize).routes(),
	)

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))
}

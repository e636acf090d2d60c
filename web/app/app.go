// Package app serves the Foundry web interface: a generation request form,
// the project library, and knowledge base management.
package app

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/JaimeStill/foundry/pkg/module"
	"github.com/JaimeStill/foundry/pkg/web"
)

//go:embed layout/*.html views/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var views = []web.ViewDef{
	{Route: "GET /{$}", Template: "generate.html", Title: "Generate", Bundle: "generate.js"},
	{Route: "GET /library", Template: "library.html", Title: "Library", Bundle: "library.js"},
	{Route: "GET /knowledge", Template: "knowledge.html", Title: "Knowledge", Bundle: "knowledge.js"},
}

// NewModule creates a module that serves the web interface at basePath.
func NewModule(basePath string) (*module.Module, error) {
	ts, err := web.NewTemplateSet(templateFS, templateFS, "layout/*.html", "views", basePath, views)
	if err != nil {
		return nil, fmt.Errorf("view templates: %w", err)
	}

	mux := http.NewServeMux()
	for _, view := range views {
		mux.HandleFunc(view.Route, ts.PageHandler("base", view))
	}
	mux.HandleFunc("GET /static/", web.DistServer(staticFS, "static", "/static"))

	return module.New(basePath, mux), nil
}

package knowledge

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/foundry/pkg/handlers"
	"github.com/JaimeStill/foundry/pkg/pagination"
	"github.com/JaimeStill/foundry/pkg/routes"
)

// Handler provides HTTP endpoints for knowledge operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest carries a semantic search query and optional result limit.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// ReindexResult reports how many documents were re-embedded.
type ReindexResult struct {
	Count int `json:"count"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "knowledge"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for knowledge endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/knowledge",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/types", Handler: h.Types},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Add},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/reindex", Handler: h.Reindex},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of knowledge documents with optional
// query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Types returns the list of valid knowledge document types.
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Types())
}

// Find returns a single knowledge document by its content hash ID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	doc, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Add processes a JSON body to store a new knowledge document.
// Re-adding identical content returns the existing document.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var cmd AddCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	doc, err := h.sys.Add(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

// Search accepts a JSON body with a query string and returns the most
// similar documents with their similarity scores.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	results, err := h.sys.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

// Reindex re-embeds every stored document with the current embedding model.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	count, err := h.sys.Reindex(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ReindexResult{Count: count})
}

// Delete removes a knowledge document by its content hash ID.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

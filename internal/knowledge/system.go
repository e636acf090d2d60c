package knowledge

import (
	"context"

	"github.com/JaimeStill/foundry/pkg/pagination"
)

// System defines the public contract for knowledge domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id string) (*Document, error)

	// Add cleans and hashes content, embeds it, and stores the document.
	// Adding content that already exists returns the stored document.
	Add(ctx context.Context, cmd AddCommand) (*Document, error)

	// Search embeds the query and returns the most similar documents by
	// cosine similarity, at most limit results.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	Delete(ctx context.Context, id string) error

	// Reindex re-embeds every stored document and returns the count
	// processed. Used after changing the embedding model.
	Reindex(ctx context.Context) (int, error)
}

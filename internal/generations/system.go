package generations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/pkg/pagination"
)

// System defines the public contract for generation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Generation], error)

	Find(ctx context.Context, id uuid.UUID) (*Generation, error)

	// Create validates the requirement, inserts a pending generation, and
	// publishes it to the dispatch queue.
	Create(ctx context.Context, cmd CreateCommand) (*Generation, error)

	// Run executes the generation workflow for a dispatched task. Called
	// by queue workers, not handlers.
	Run(ctx context.Context, id uuid.UUID) error

	// Accept catalogs a reviewed generation's files into the app library
	// and marks the generation complete.
	Accept(ctx context.Context, id uuid.UUID) (*Generation, error)

	// Retry re-dispatches a failed generation.
	Retry(ctx context.Context, id uuid.UUID) (*Generation, error)

	// Delete removes a generation in a settled status. The project it was
	// cataloged into is never deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/pkg/pagination"
)

// System defines the public contract for prompt domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prompt], error)

	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	FindActive(ctx context.Context, stage Stage) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// Instructions returns the effective instructions for a stage: the
	// active override when one exists, otherwise the hardcoded default.
	Instructions(ctx context.Context, stage Stage) (string, error)

	// Spec returns the effective output specification for a stage: the
	// active override's spec when one is set, otherwise the hardcoded
	// default.
	Spec(ctx context.Context, stage Stage) (string, error)
}

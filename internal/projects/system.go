package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/pkg/pagination"
	"github.com/JaimeStill/foundry/pkg/storage"
)

// System defines the public contract for project domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Project], error)

	Find(ctx context.Context, id uuid.UUID) (*Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)

	// Save upserts a project by name and replaces its stored file set.
	Save(ctx context.Context, cmd SaveCommand) (*Project, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// DownloadFile streams a single stored file. The caller must close
	// the result body.
	DownloadFile(ctx context.Context, id uuid.UUID, filename string) (*storage.DownloadResult, error)

	// Archive returns a zip of all project files with deterministic
	// entry order.
	Archive(ctx context.Context, id uuid.UUID) (*ArchiveResult, error)
}

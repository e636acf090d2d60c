package projects

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/foundry/pkg/pagination"
	"github.com/JaimeStill/foundry/pkg/query"
	"github.com/JaimeStill/foundry/pkg/repository"
	"github.com/JaimeStill/foundry/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if p.Files, err = r.loadFiles(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Slug", slug)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if p.Files, err = r.loadFiles(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Project, error) {
	if len(cmd.Files) == 0 {
		return nil, ErrNoFiles
	}

	filenames := slices.Sorted(maps.Keys(cmd.Files))
	for _, name := range filenames {
		if err := ValidateFilename(name); err != nil {
			return nil, fmt.Errorf("%w: %q", err, name)
		}
	}

	slug := SanitizeSlug(cmd.Name)
	if slug == "" {
		return nil, ErrInvalidName
	}

	upsertQ := `
		INSERT INTO projects(id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			updated_at = NOW()
		RETURNING id, name, slug, description, created_at, updated_at`

	upsertArgs := []any{uuid.New(), cmd.Name, slug, cmd.Description}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, upsertQ, upsertArgs, scanProject)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	previous, err := r.loadFiles(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	uploaded, err := r.uploadFiles(ctx, p.ID, filenames, cmd.Files)
	if err != nil {
		r.deleteBlobs(ctx, uploaded)
		return nil, err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM project_files WHERE project_id = $1",
			p.ID,
		); err != nil {
			return struct{}{}, fmt.Errorf("clear project files: %w", err)
		}

		insertQ := `
			INSERT INTO project_files(id, project_id, filename, content_type, size)
			VALUES ($1, $2, $3, $4, $5)`

		for _, name := range filenames {
			content := cmd.Files[name]
			if _, err := tx.ExecContext(
				ctx, insertQ,
				uuid.New(), p.ID, name, contentTypeFor(name), int64(len(content)),
			); err != nil {
				return struct{}{}, fmt.Errorf("insert project file %q: %w", name, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		r.deleteBlobs(ctx, uploaded)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.cleanupStale(ctx, p.ID, previous, cmd.Files)

	if p.Files, err = r.loadFiles(ctx, p.ID); err != nil {
		return nil, err
	}

	r.logger.Info("project saved", "id", p.ID, "name", p.Name, "files", len(p.Files))
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM projects WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, f := range p.Files {
		key := buildStorageKey(id, f.Filename)
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", key,
				"error", delErr,
			)
		}
	}

	r.logger.Info("project deleted", "id", id, "name", p.Name)
	return nil
}

func (r *repo) DownloadFile(
	ctx context.Context,
	id uuid.UUID,
	filename string,
) (*storage.DownloadResult, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}

	q := `
		SELECT f.id, f.project_id, f.filename, f.content_type, f.size, f.created_at
		FROM project_files f
		WHERE f.project_id = $1 AND f.filename = $2`

	if _, err := repository.QueryOne(ctx, r.db, q, []any{id, filename}, scanFile); err != nil {
		return nil, repository.MapError(err, ErrFileNotFound, ErrDuplicate)
	}

	return r.storage.Download(ctx, buildStorageKey(id, filename))
}

func (r *repo) Archive(ctx context.Context, id uuid.UUID) (*ArchiveResult, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(p.Files) == 0 {
		return nil, ErrNoFiles
	}

	contents := make([][]byte, len(p.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(archiveWorkers(len(p.Files)))

	for i, f := range p.Files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			result, err := r.storage.Download(gctx, buildStorageKey(id, f.Filename))
			if err != nil {
				return fmt.Errorf("download %q: %w", f.Filename, err)
			}
			defer result.Body.Close()

			data, err := io.ReadAll(result.Body)
			if err != nil {
				return fmt.Errorf("read %q: %w", f.Filename, err)
			}

			contents[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, f := range p.Files {
		w, err := zw.Create(f.Filename)
		if err != nil {
			return nil, fmt.Errorf("archive entry %q: %w", f.Filename, err)
		}
		if _, err := w.Write(contents[i]); err != nil {
			return nil, fmt.Errorf("write archive entry %q: %w", f.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	return &ArchiveResult{
		Filename: p.Slug + ".zip",
		Data:     buf.Bytes(),
	}, nil
}

func (r *repo) loadFiles(ctx context.Context, projectID uuid.UUID) ([]File, error) {
	q := `
		SELECT f.id, f.project_id, f.filename, f.content_type, f.size, f.created_at
		FROM project_files f
		WHERE f.project_id = $1
		ORDER BY f.filename`

	files, err := repository.QueryMany(ctx, r.db, q, []any{projectID}, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query project files: %w", err)
	}
	return files, nil
}

func (r *repo) uploadFiles(
	ctx context.Context,
	projectID uuid.UUID,
	filenames []string,
	files map[string]string,
) ([]string, error) {
	var uploaded []string

	for _, name := range filenames {
		key := buildStorageKey(projectID, name)
		reader := strings.NewReader(files[name])

		if err := r.storage.Upload(ctx, key, reader, contentTypeFor(name)); err != nil {
			return uploaded, fmt.Errorf("upload project file %q: %w", name, err)
		}

		uploaded = append(uploaded, key)
	}

	return uploaded, nil
}

func (r *repo) deleteBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", err)
		}
	}
}

// cleanupStale removes blobs for files that existed before the save but are
// absent from the new file set. Failures are logged, not fatal.
func (r *repo) cleanupStale(
	ctx context.Context,
	projectID uuid.UUID,
	previous []File,
	files map[string]string,
) {
	for _, f := range previous {
		if _, ok := files[f.Filename]; ok {
			continue
		}

		key := buildStorageKey(projectID, f.Filename)
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("stale blob delete failed", "key", key, "error", err)
		}
	}
}

func buildStorageKey(projectID uuid.UUID, filename string) string {
	return fmt.Sprintf("projects/%s/%s", projectID, filename)
}

func archiveWorkers(count int) int {
	return max(min(runtime.NumCPU(), count), 1)
}

package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/foundry/pkg/pagination"
	"github.com/JaimeStill/foundry/pkg/query"
	"github.com/JaimeStill/foundry/pkg/repository"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

type repo struct {
	db         *sql.DB
	embedder   Embedder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a knowledge repository implementing the System interface.
func New(
	db *sql.DB,
	embedder Embedder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		embedder:   embedder,
		logger:     logger.With("system", "knowledge"),
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
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count knowledge documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query knowledge documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Add(ctx context.Context, cmd AddCommand) (*Document, error) {
	cmd.Normalize()

	if !slices.Contains(docTypes, cmd.DocType) {
		return nil, ErrInvalidType
	}

	cleaned := CleanContent(cmd.Content)
	if strings.TrimSpace(cleaned) == "" {
		return nil, ErrEmptyContent
	}

	embedding, err := r.embedder.EmbedDocument(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO knowledge_documents(id, content, doc_type, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET doc_type = EXCLUDED.doc_type
		RETURNING id, content, doc_type, added_at`

	args := []any{HashContent(cleaned), cleaned, cmd.DocType, pgvector.NewVector(embedding)}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("knowledge document added", "id", d.ID, "doc_type", d.DocType)
	return &d, nil
}

func (r *repo) Search(ctx context.Context, searchQuery string, limit int) ([]SearchResult, error) {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	embedding, err := r.embedder.EmbedQuery(ctx, searchQuery)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT k.id, k.content, k.doc_type, k.added_at,
			   1 - (k.embedding <=> $1) AS similarity
		FROM knowledge_documents k
		ORDER BY k.embedding <=> $1
		LIMIT $2`

	args := []any{pgvector.NewVector(embedding), limit}

	results, err := repository.QueryMany(ctx, r.db, q, args, scanSearchResult)
	if err != nil {
		return nil, fmt.Errorf("search knowledge documents: %w", err)
	}

	return results, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM knowledge_documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("knowledge document deleted", "id", id)
	return nil
}

func (r *repo) Reindex(ctx context.Context) (int, error) {
	q := "SELECT k.id, k.content, k.doc_type, k.added_at FROM knowledge_documents k"

	docs, err := repository.QueryMany(ctx, r.db, q, nil, scanDocument)
	if err != nil {
		return 0, fmt.Errorf("query knowledge documents: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reindexWorkers(len(docs)))

	for _, d := range docs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			embedding, err := r.embedder.EmbedDocument(gctx, d.Content)
			if err != nil {
				return fmt.Errorf("document %s: %w", d.ID, err)
			}

			_, err = r.db.ExecContext(
				gctx,
				"UPDATE knowledge_documents SET embedding = $1 WHERE id = $2",
				pgvector.NewVector(embedding), d.ID,
			)
			if err != nil {
				return fmt.Errorf("document %s: update embedding: %w", d.ID, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	r.logger.Info("knowledge base reindexed", "count", len(docs))
	return len(docs), nil
}

func reindexWorkers(count int) int {
	return max(min(runtime.NumCPU(), count), 1)
}

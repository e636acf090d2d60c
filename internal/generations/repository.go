package generations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/internal/knowledge"
	"github.com/JaimeStill/foundry/internal/projects"
	"github.com/JaimeStill/foundry/internal/prompts"
	"github.com/JaimeStill/foundry/internal/workflow"
	"github.com/JaimeStill/foundry/pkg/pagination"
	"github.com/JaimeStill/foundry/pkg/query"
	"github.com/JaimeStill/foundry/pkg/queue"
	"github.com/JaimeStill/foundry/pkg/repository"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const returning = `id, prompt, name, status, options, spec, files, deployment,
			  error, project_id, provider, model, created_at, updated_at`

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	queue      queue.System
	projects   projects.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a generation repository implementing the System interface.
// It internally constructs the workflow runtime from the provided dependencies.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	pagination pagination.Config,
	q queue.System,
	knowledge knowledge.System,
	prompts prompts.System,
	projects projects.System,
) System {
	rt := &workflow.Runtime{
		Agent:     agent,
		Knowledge: knowledge,
		Prompts:   prompts,
		Logger:    logger.With("workflow", "generate"),
	}
	return &repo{
		db:         db,
		rt:         rt,
		queue:      q,
		projects:   projects,
		logger:     logger.With("system", "generations"),
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
) (*pagination.PageResult[Generation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Prompt", "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count generations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanGeneration)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Generation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGeneration)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Generation, error) {
	if strings.TrimSpace(cmd.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	cmd.Options.Normalize()

	optionsJSON, err := json.Marshal(cmd.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	insertQ := `
		INSERT INTO generations(id, prompt, status, options)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + returning

	insertArgs := []any{uuid.New(), cmd.Prompt, StatusPending, optionsJSON}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Generation, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanGeneration)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.queue.Publish(ctx, queue.Task{ID: g.ID, Kind: TaskKind}); err != nil {
		r.fail(ctx, g.ID, fmt.Sprintf("dispatch: %s", err))
		return nil, fmt.Errorf("dispatch generation %s: %w", g.ID, err)
	}

	r.logger.Info("generation created",
		"id", g.ID,
		"target", g.Options.Deployment,
	)
	return &g, nil
}

// Run is the worker entry point for a dispatched generation. It guards the
// pending → running transition, executes the workflow graph, and persists
// the result with status review. Any failure, including a panic in a graph
// node, marks the generation failed with the error recorded on the row.
func (r *repo) Run(ctx context.Context, id uuid.UUID) (err error) {
	runQ := `
		UPDATE generations
		SET status = 'running', error = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + returning

	g, err := r.guardedUpdate(ctx, runQ, []any{id})
	if err != nil {
		return fmt.Errorf("start generation %s: %w", id, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(ctx, id, fmt.Sprintf("panic: %v", rec))
			err = fmt.Errorf("generation %s panicked: %v", id, rec)
		}
	}()

	result, err := workflow.Execute(ctx, r.rt, id, g.Prompt, g.Options)
	if err != nil {
		r.fail(ctx, id, err.Error())
		return fmt.Errorf("generation %s: %w", id, err)
	}

	if err := r.persistResult(ctx, id, result); err != nil {
		r.fail(ctx, id, err.Error())
		return fmt.Errorf("persist generation %s: %w", id, err)
	}

	r.logger.Info("generation awaiting acceptance",
		"id", id,
		"app", result.Spec.Name,
		"files", len(result.Files),
	)
	return nil
}

func (r *repo) Accept(ctx context.Context, id uuid.UUID) (*Generation, error) {
	g, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.Status != StatusReview || g.Spec == nil {
		return nil, ErrStatusConflict
	}

	p, err := r.projects.Save(ctx, projects.SaveCommand{
		Name:        g.Spec.Name,
		Description: g.Spec.Description,
		Files:       g.Files,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog project: %w", err)
	}

	acceptQ := `
		UPDATE generations
		SET status = 'complete', project_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'review'
		RETURNING ` + returning

	updated, err := r.guardedUpdate(ctx, acceptQ, []any{id, p.ID})
	if err != nil {
		return nil, err
	}

	r.logger.Info("generation accepted",
		"id", id,
		"project_id", p.ID,
		"slug", p.Slug,
	)
	return updated, nil
}

func (r *repo) Retry(ctx context.Context, id uuid.UUID) (*Generation, error) {
	retryQ := `
		UPDATE generations
		SET status = 'pending', error = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'failed'
		RETURNING ` + returning

	g, err := r.guardedUpdate(ctx, retryQ, []any{id})
	if err != nil {
		return nil, err
	}

	if err := r.queue.Publish(ctx, queue.Task{ID: g.ID, Kind: TaskKind}); err != nil {
		r.fail(ctx, g.ID, fmt.Sprintf("dispatch: %s", err))
		return nil, fmt.Errorf("dispatch generation %s: %w", g.ID, err)
	}

	r.logger.Info("generation retried", "id", id)
	return g, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	g, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if g.Status == StatusPending || g.Status == StatusRunning {
		return ErrStatusConflict
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM generations WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("generation deleted", "id", id)
	return nil
}

func (r *repo) persistResult(ctx context.Context, id uuid.UUID, result *workflow.Result) error {
	specJSON, err := json.Marshal(result.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	filesJSON, err := json.Marshal(result.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	persistQ := `
		UPDATE generations
		SET status = 'review', name = $2, spec = $3, files = $4, deployment = $5,
			provider = $6, model = $7, error = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'running'
		RETURNING ` + returning

	persistArgs := []any{
		id,
		result.Spec.Name,
		specJSON,
		filesJSON,
		result.Deployment,
		r.rt.Agent.Provider.Name,
		r.rt.Agent.Model.Name,
	}

	_, err = r.guardedUpdate(ctx, persistQ, persistArgs)
	return err
}

// guardedUpdate executes a status-guarded UPDATE ... RETURNING. When the
// guard matches no row, it distinguishes a missing generation (ErrNotFound)
// from one in the wrong status (ErrStatusConflict).
func (r *repo) guardedUpdate(ctx context.Context, q string, args []any) (*Generation, error) {
	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Generation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanGeneration)
	})
	if err == nil {
		return &g, nil
	}

	mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
	if errors.Is(mapped, ErrNotFound) {
		id, ok := args[0].(uuid.UUID)
		if ok {
			if _, findErr := r.Find(ctx, id); findErr == nil {
				return nil, ErrStatusConflict
			}
		}
	}

	return nil, mapped
}

func (r *repo) fail(ctx context.Context, id uuid.UUID, message string) {
	failQ := `
		UPDATE generations
		SET status = 'failed', error = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'running')`

	if _, err := r.db.ExecContext(ctx, failQ, id, message); err != nil {
		r.logger.Error("failed to record generation failure",
			"id", id,
			"error", err,
		)
	}
}

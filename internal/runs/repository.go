package runs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/visage/pkg/database"
	"github.com/JaimeStill/visage/pkg/pagination"
	"github.com/JaimeStill/visage/pkg/query"
	"github.com/JaimeStill/visage/pkg/repository"
)

const insertRun = `
	INSERT INTO relay_runs(id, request_id, filename, content_type, size_bytes, stage, status, http_status, upload_file_id, error, duration_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, request_id, filename, content_type, size_bytes, stage, status, http_status, upload_file_id, error, duration_ms, created_at`

type repo struct {
	db         database.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
// Every operation fails with database.ErrNotReady until db reports ready.
func New(
	db database.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
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
) (*pagination.PageResult[Run], error) {
	if !r.db.Ready() {
		return nil, database.ErrNotReady
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "RequestID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	conn := r.db.Connection()

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := conn.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, conn, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	if !r.db.Ready() {
		return nil, database.ErrNotReady
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db.Connection(), q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Record(ctx context.Context, cmd CreateCommand) (*Run, error) {
	if !r.db.Ready() {
		return nil, database.ErrNotReady
	}

	args := []any{
		uuid.New(),
		cmd.RequestID,
		cmd.Filename,
		cmd.ContentType,
		cmd.SizeBytes,
		cmd.Stage,
		cmd.Status,
		cmd.HTTPStatus,
		nullable(cmd.UploadFileID),
		nullable(cmd.Error),
		cmd.Duration.Milliseconds(),
	}

	run, err := repository.QueryOne(ctx, r.db.Connection(), insertRun, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run recorded", "id", run.ID, "request_id", run.RequestID, "status", run.Status)
	return &run, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package repository

import (
	"context"

	"github.com/aarondl/opt/omitnull"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/taskboard/internal/db"
)

type Task struct {
	ID          string  `db:"id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	DueDate     *string `db:"due_date"`
	AssignedTo  *string `db:"assigned_to"`
	ListID      string  `db:"list_id"`
}

// TaskPatch leaves unset fields untouched; nullable fields may be set to NULL.
type TaskPatch struct {
	ID          string
	Title       *string
	Description omitnull.Val[string]
	DueDate     omitnull.Val[string]
	AssignedTo  omitnull.Val[string]
	ListID      *string
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, taskID string) (*Task, error)
	ListByList(ctx context.Context, listID string) ([]*Task, error)
	Patch(ctx context.Context, patch *TaskPatch) (*Task, error)
	Delete(ctx context.Context, taskID string) error
}

var taskColumns = []any{"id", "title", "description", "due_date", "assigned_to", "list_id"}

type pgxTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgxTaskRepository{pool: pool}
}

func scanTask(row pgx.Row) (*Task, error) {
	t := &Task{}
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.AssignedTo,
		&t.ListID,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *pgxTaskRepository) Create(ctx context.Context, task *Task) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("tasks", "id", "title", "description", "due_date", "assigned_to", "list_id"),
		im.Values(
			psql.Arg(task.ID),
			psql.Arg(task.Title),
			psql.Arg(task.Description),
			psql.Arg(task.DueDate),
			psql.Arg(task.AssignedTo),
			psql.Arg(task.ListID),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return translatePgError(err)
}

func (p *pgxTaskRepository) Get(ctx context.Context, taskID string) (*Task, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(taskColumns...),
		sm.From("tasks"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(taskID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	task, err := scanTask(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return task, err
}

func (p *pgxTaskRepository) ListByList(ctx context.Context, listID string) ([]*Task, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(taskColumns...),
		sm.From("tasks"),
		sm.Where(psql.Quote("list_id").EQ(psql.Arg(listID))),
		sm.OrderBy("seq"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Task, error) {
		return scanTask(row)
	})
}

func (p *pgxTaskRepository) Patch(ctx context.Context, patch *TaskPatch) (*Task, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 5)
	if patch.Title != nil {
		sets = append(sets, um.SetCol("title").ToArg(*patch.Title))
	}
	if !patch.Description.IsUnset() {
		sets = append(sets, um.SetCol("description").ToArg(patch.Description.MustPtr()))
	}
	if !patch.DueDate.IsUnset() {
		sets = append(sets, um.SetCol("due_date").ToArg(patch.DueDate.MustPtr()))
	}
	if !patch.AssignedTo.IsUnset() {
		sets = append(sets, um.SetCol("assigned_to").ToArg(patch.AssignedTo.MustPtr()))
	}
	if patch.ListID != nil {
		sets = append(sets, um.SetCol("list_id").ToArg(*patch.ListID))
	}
	if len(sets) == 0 {
		return p.Get(ctx, patch.ID)
	}

	q := psql.Update(
		um.Table("tasks"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(taskColumns...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	task, err := scanTask(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translatePgError(err)
	}
	return task, nil
}

func (p *pgxTaskRepository) Delete(ctx context.Context, taskID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("tasks"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(taskID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/taskboard/internal/db"
)

type List struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	BoardID string `db:"board_id"`
}

type ListRepository interface {
	Create(ctx context.Context, list *List) error
	Get(ctx context.Context, listID string) (*List, error)
	// ListByBoard returns the board's lists in insertion order.
	ListByBoard(ctx context.Context, boardID string) ([]*List, error)
}

type pgxListRepository struct {
	pool *pgxpool.Pool
}

func NewPgxListRepository(pool *pgxpool.Pool) ListRepository {
	return &pgxListRepository{pool: pool}
}

func (p *pgxListRepository) Create(ctx context.Context, list *List) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("lists", "id", "name", "board_id"),
		im.Values(psql.Arg(list.ID), psql.Arg(list.Name), psql.Arg(list.BoardID)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return translatePgError(err)
}

func (p *pgxListRepository) Get(ctx context.Context, listID string) (*List, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "board_id"),
		sm.From("lists"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(listID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	list := &List{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&list.ID, &list.Name, &list.BoardID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return list, nil
}

func (p *pgxListRepository) ListByBoard(ctx context.Context, boardID string) ([]*List, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "board_id"),
		sm.From("lists"),
		sm.Where(psql.Quote("board_id").EQ(psql.Arg(boardID))),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*List, error) {
		list := &List{}
		if err := row.Scan(&list.ID, &list.Name, &list.BoardID); err != nil {
			return nil, err
		}
		return list, nil
	})
}

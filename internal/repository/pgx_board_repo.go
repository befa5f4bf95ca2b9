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

type Board struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	TeamID string `db:"team_id"`
}

type BoardRepository interface {
	// Create fails with ErrNotFound when the team does not exist.
	Create(ctx context.Context, board *Board) error
	Get(ctx context.Context, boardID string) (*Board, error)
	ListByTeam(ctx context.Context, teamID string) ([]*Board, error)
}

type pgxBoardRepository struct {
	pool *pgxpool.Pool
}

func NewPgxBoardRepository(pool *pgxpool.Pool) BoardRepository {
	return &pgxBoardRepository{pool: pool}
}

func (p *pgxBoardRepository) Create(ctx context.Context, board *Board) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("boards", "id", "name", "team_id"),
		im.Values(psql.Arg(board.ID), psql.Arg(board.Name), psql.Arg(board.TeamID)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return translatePgError(err)
}

func (p *pgxBoardRepository) Get(ctx context.Context, boardID string) (*Board, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "team_id"),
		sm.From("boards"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(boardID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	board := &Board{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&board.ID, &board.Name, &board.TeamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return board, nil
}

func (p *pgxBoardRepository) ListByTeam(ctx context.Context, teamID string) ([]*Board, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "team_id"),
		sm.From("boards"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Board, error) {
		board := &Board{}
		if err := row.Scan(&board.ID, &board.Name, &board.TeamID); err != nil {
			return nil, err
		}
		return board, nil
	})
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/taskboard/internal/db"
)

type User struct {
	ID           string  `db:"id"`
	Username     string  `db:"username"`
	PasswordHash string  `db:"password_hash"`
	IsAdmin      bool    `db:"is_admin"`
	IsTeamAdmin  bool    `db:"is_team_admin"`
	TeamID       *string `db:"team_id"`
}

type UserPatch struct {
	ID          string  `db:"id"`
	IsTeamAdmin *bool   `db:"is_team_admin"`
	TeamID      *string `db:"team_id"`
}

type UserRepository interface {
	// Create fails with ErrAlreadyExists on a taken username or a second admin.
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, userID string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	HasAdmin(ctx context.Context) (bool, error)
	Patch(ctx context.Context, patch *UserPatch) (*User, error)
}

var userColumns = []any{"id", "username", "password_hash", "is_admin", "is_team_admin", "team_id"}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgxUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.IsTeamAdmin,
		&u.TeamID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (p *pgxUserRepository) Create(ctx context.Context, user *User) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("users", "id", "username", "password_hash", "is_admin", "is_team_admin", "team_id"),
		im.Values(
			psql.Arg(user.ID),
			psql.Arg(user.Username),
			psql.Arg(user.PasswordHash),
			psql.Arg(user.IsAdmin),
			psql.Arg(user.IsTeamAdmin),
			psql.Arg(user.TeamID),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return translatePgError(err)
}

func (p *pgxUserRepository) Get(ctx context.Context, userID string) (*User, error) {
	return p.getBy(ctx, "id", userID)
}

func (p *pgxUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return p.getBy(ctx, "username", username)
}

func (p *pgxUserRepository) getBy(ctx context.Context, column string, value string) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(userColumns...),
		sm.From("users"),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	return scanUser(e.QueryRow(ctx, sql, args...))
}

func (p *pgxUserRepository) HasAdmin(ctx context.Context) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id"),
		sm.From("users"),
		sm.Where(psql.Quote("is_admin").EQ(psql.Arg(true))),
		sm.Limit(1),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return false, err
	}

	var id string
	err = e.QueryRow(ctx, sql, args...).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (p *pgxUserRepository) Patch(ctx context.Context, patch *UserPatch) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 2)
	if patch.IsTeamAdmin != nil {
		sets = append(sets, um.SetCol("is_team_admin").ToArg(*patch.IsTeamAdmin))
	}
	if patch.TeamID != nil {
		sets = append(sets, um.SetCol("team_id").ToArg(*patch.TeamID))
	}
	if len(sets) == 0 {
		return p.Get(ctx, patch.ID)
	}

	q := psql.Update(
		um.Table("users"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(userColumns...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translatePgError(err)
	}
	return u, nil
}

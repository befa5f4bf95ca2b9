package memory

import (
	"context"
	"testing"

	"github.com/aarondl/opt/omitnull"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/taskboard/internal/repository"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &repository.User{ID: "u-admin", Username: "admin", IsAdmin: true}))
	require.NoError(t, s.Users().Create(ctx, &repository.User{ID: "u-lead", Username: "lead"}))
	require.NoError(t, s.Teams().Create(ctx, &repository.Team{ID: "t1", Name: "core", AdminID: "u-lead"}))
	require.NoError(t, s.Boards().Create(ctx, &repository.Board{ID: "b1", Name: "Sprint", TeamID: "t1"}))
	require.NoError(t, s.Lists().Create(ctx, &repository.List{ID: "l1", Name: "Todo", BoardID: "b1"}))
	require.NoError(t, s.Lists().Create(ctx, &repository.List{ID: "l2", Name: "Done", BoardID: "b1"}))
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		user    *repository.User
		wantErr error
	}{
		{
			name: "new user",
			user: &repository.User{ID: "u-new", Username: "new"},
		},
		{
			name:    "duplicate username",
			user:    &repository.User{ID: "u-dup", Username: "lead"},
			wantErr: repository.ErrAlreadyExists,
		},
		{
			name:    "second admin",
			user:    &repository.User{ID: "u-root", Username: "root", IsAdmin: true},
			wantErr: repository.ErrAlreadyExists,
		},
		{
			name:    "unknown team",
			user:    &repository.User{ID: "u-x", Username: "x", TeamID: strPtr("missing")},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			seed(t, s)

			err := s.Users().Create(context.Background(), tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := s.Users().GetByUsername(context.Background(), tt.user.Username)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, got.ID)
		})
	}
}

func TestStore_WithinTransaction(t *testing.T) {
	t.Run("rollback restores state", func(t *testing.T) {
		s := NewStore()
		seed(t, s)
		ctx := context.Background()

		failure := errors.New("boom")
		err := s.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := s.Teams().Create(txCtx, &repository.Team{ID: "t2", Name: "infra", AdminID: "u-admin"}); err != nil {
				return err
			}
			admin := true
			if _, err := s.Users().Patch(txCtx, &repository.UserPatch{ID: "u-admin", TeamID: strPtr("t2"), IsTeamAdmin: &admin}); err != nil {
				return err
			}
			return failure
		})
		require.ErrorIs(t, err, failure)

		_, err = s.Teams().Get(ctx, "t2")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		u, err := s.Users().Get(ctx, "u-admin")
		require.NoError(t, err)
		assert.Nil(t, u.TeamID)
		assert.False(t, u.IsTeamAdmin)
	})

	t.Run("commit keeps writes", func(t *testing.T) {
		s := NewStore()
		seed(t, s)
		ctx := context.Background()

		err := s.WithinTransaction(ctx, func(txCtx context.Context) error {
			return s.Teams().Create(txCtx, &repository.Team{ID: "t2", Name: "infra", AdminID: "u-admin"})
		})
		require.NoError(t, err)

		team, err := s.Teams().Get(ctx, "t2")
		require.NoError(t, err)
		assert.Equal(t, "infra", team.Name)
	})
}

func TestTeamRepository_Create(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Teams().Create(ctx, &repository.Team{ID: "t2", Name: "core", AdminID: "u-admin"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	err = s.Teams().Create(ctx, &repository.Team{ID: "t3", Name: "other", AdminID: "nobody"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	teams, err := s.Teams().List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "core", teams[0].Name)
}

func TestListRepository_ListByBoard(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	lists, err := s.Lists().ListByBoard(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Todo", lists[0].Name)
	assert.Equal(t, "Done", lists[1].Name)

	lists, err = s.Lists().ListByBoard(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
}

func TestTaskRepository_Patch(t *testing.T) {
	tests := []struct {
		name    string
		patch   *repository.TaskPatch
		want    *repository.Task
		wantErr error
	}{
		{
			name:  "title only",
			patch: &repository.TaskPatch{ID: "task1", Title: strPtr("Renamed")},
			want: &repository.Task{
				ID: "task1", Title: "Renamed", Description: strPtr("first"), AssignedTo: strPtr("u-lead"), ListID: "l1",
			},
		},
		{
			name:  "clear description",
			patch: &repository.TaskPatch{ID: "task1", Description: omitnull.FromPtr[string](nil)},
			want: &repository.Task{
				ID: "task1", Title: "Write", AssignedTo: strPtr("u-lead"), ListID: "l1",
			},
		},
		{
			name:  "move to list and set due date",
			patch: &repository.TaskPatch{ID: "task1", ListID: strPtr("l2"), DueDate: omitnull.From("2030-01-01")},
			want: &repository.Task{
				ID: "task1", Title: "Write", Description: strPtr("first"), DueDate: strPtr("2030-01-01"),
				AssignedTo: strPtr("u-lead"), ListID: "l2",
			},
		},
		{
			name:    "unknown list",
			patch:   &repository.TaskPatch{ID: "task1", ListID: strPtr("nope")},
			wantErr: repository.ErrNotFound,
		},
		{
			name:    "unknown task",
			patch:   &repository.TaskPatch{ID: "nope", Title: strPtr("x")},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			seed(t, s)
			ctx := context.Background()

			require.NoError(t, s.Tasks().Create(ctx, &repository.Task{
				ID: "task1", Title: "Write", Description: strPtr("first"), AssignedTo: strPtr("u-lead"), ListID: "l1",
			}))

			got, err := s.Tasks().Patch(ctx, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stored, err := s.Tasks().Get(ctx, "task1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Tasks().Create(ctx, &repository.Task{ID: "a", Title: "A", ListID: "l1"}))
	require.NoError(t, s.Tasks().Create(ctx, &repository.Task{ID: "b", Title: "B", ListID: "l1"}))

	require.NoError(t, s.Tasks().Delete(ctx, "a"))
	assert.ErrorIs(t, s.Tasks().Delete(ctx, "a"), repository.ErrNotFound)

	tasks, err := s.Tasks().ListByList(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].ID)
}

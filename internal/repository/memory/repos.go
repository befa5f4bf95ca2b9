package memory

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/repository"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *repository.User) error {
	defer r.s.write(ctx)()

	d := r.s.d
	if _, ok := d.users[user.ID]; ok {
		return errors.Wrap(repository.ErrAlreadyExists, "users_pkey")
	}
	for _, u := range d.users {
		if u.Username == user.Username {
			return errors.Wrap(repository.ErrAlreadyExists, "users_username_key")
		}
		if u.IsAdmin && user.IsAdmin {
			return errors.Wrap(repository.ErrAlreadyExists, "users_single_admin")
		}
	}
	if user.TeamID != nil {
		if _, ok := d.teams[*user.TeamID]; !ok {
			return errors.Wrap(repository.ErrNotFound, "users_team_id_fkey")
		}
	}

	u := *user
	u.TeamID = clonePtr(user.TeamID)
	d.users[u.ID] = u
	return nil
}

func (r *userRepository) Get(ctx context.Context, userID string) (*repository.User, error) {
	defer r.s.read(ctx)()

	u, ok := r.s.d.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.TeamID = clonePtr(u.TeamID)
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	defer r.s.read(ctx)()

	for _, u := range r.s.d.users {
		if u.Username == username {
			u.TeamID = clonePtr(u.TeamID)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) HasAdmin(ctx context.Context) (bool, error) {
	defer r.s.read(ctx)()

	for _, u := range r.s.d.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) Patch(ctx context.Context, patch *repository.UserPatch) (*repository.User, error) {
	defer r.s.write(ctx)()

	d := r.s.d
	u, ok := d.users[patch.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.TeamID != nil {
		if _, ok := d.teams[*patch.TeamID]; !ok {
			return nil, errors.Wrap(repository.ErrNotFound, "users_team_id_fkey")
		}
		u.TeamID = clonePtr(patch.TeamID)
	}
	if patch.IsTeamAdmin != nil {
		u.IsTeamAdmin = *patch.IsTeamAdmin
	}
	d.users[u.ID] = u

	u.TeamID = clonePtr(u.TeamID)
	return &u, nil
}

type teamRepository struct{ s *Store }

func (r *teamRepository) Create(ctx context.Context, team *repository.Team) error {
	defer r.s.write(ctx)()

	d := r.s.d
	if _, ok := d.teams[team.ID]; ok {
		return errors.Wrap(repository.ErrAlreadyExists, "teams_pkey")
	}
	for _, t := range d.teams {
		if t.Name == team.Name {
			return errors.Wrap(repository.ErrAlreadyExists, "teams_name_key")
		}
	}
	if _, ok := d.users[team.AdminID]; !ok {
		return errors.Wrap(repository.ErrNotFound, "teams_admin_id_fkey")
	}

	d.teams[team.ID] = *team
	return nil
}

func (r *teamRepository) Get(ctx context.Context, teamID string) (*repository.Team, error) {
	defer r.s.read(ctx)()

	t, ok := r.s.d.teams[teamID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *teamRepository) List(ctx context.Context) ([]*repository.Team, error) {
	defer r.s.read(ctx)()

	teams := make([]*repository.Team, 0, len(r.s.d.teams))
	for _, t := range r.s.d.teams {
		teams = append(teams, &t)
	}
	slices.SortFunc(teams, func(a, b *repository.Team) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return teams, nil
}

type boardRepository struct{ s *Store }

func (r *boardRepository) Create(ctx context.Context, board *repository.Board) error {
	defer r.s.write(ctx)()

	d := r.s.d
	if _, ok := d.boards[board.ID]; ok {
		return errors.Wrap(repository.ErrAlreadyExists, "boards_pkey")
	}
	if _, ok := d.teams[board.TeamID]; !ok {
		return errors.Wrap(repository.ErrNotFound, "boards_team_id_fkey")
	}

	d.boards[board.ID] = *board
	d.boardOrder = append(d.boardOrder, board.ID)
	return nil
}

func (r *boardRepository) Get(ctx context.Context, boardID string) (*repository.Board, error) {
	defer r.s.read(ctx)()

	b, ok := r.s.d.boards[boardID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *boardRepository) ListByTeam(ctx context.Context, teamID string) ([]*repository.Board, error) {
	defer r.s.read(ctx)()

	boards := make([]*repository.Board, 0)
	for _, id := range r.s.d.boardOrder {
		if b := r.s.d.boards[id]; b.TeamID == teamID {
			boards = append(boards, &b)
		}
	}
	return boards, nil
}

type listRepository struct{ s *Store }

func (r *listRepository) Create(ctx context.Context, list *repository.List) error {
	defer r.s.write(ctx)()

	d := r.s.d
	if _, ok := d.lists[list.ID]; ok {
		return errors.Wrap(repository.ErrAlreadyExists, "lists_pkey")
	}
	if _, ok := d.boards[list.BoardID]; !ok {
		return errors.Wrap(repository.ErrNotFound, "lists_board_id_fkey")
	}

	d.lists[list.ID] = *list
	d.listOrder = append(d.listOrder, list.ID)
	return nil
}

func (r *listRepository) Get(ctx context.Context, listID string) (*repository.List, error) {
	defer r.s.read(ctx)()

	l, ok := r.s.d.lists[listID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *listRepository) ListByBoard(ctx context.Context, boardID string) ([]*repository.List, error) {
	defer r.s.read(ctx)()

	lists := make([]*repository.List, 0)
	for _, id := range r.s.d.listOrder {
		if l := r.s.d.lists[id]; l.BoardID == boardID {
			lists = append(lists, &l)
		}
	}
	return lists, nil
}

type taskRepository struct{ s *Store }

func copyTask(t repository.Task) *repository.Task {
	t.Description = clonePtr(t.Description)
	t.DueDate = clonePtr(t.DueDate)
	t.AssignedTo = clonePtr(t.AssignedTo)
	return &t
}

func (r *taskRepository) Create(ctx context.Context, task *repository.Task) error {
	defer r.s.write(ctx)()

	d := r.s.d
	if _, ok := d.tasks[task.ID]; ok {
		return errors.Wrap(repository.ErrAlreadyExists, "tasks_pkey")
	}
	if _, ok := d.lists[task.ListID]; !ok {
		return errors.Wrap(repository.ErrNotFound, "tasks_list_id_fkey")
	}

	d.tasks[task.ID] = *copyTask(*task)
	d.taskOrder = append(d.taskOrder, task.ID)
	return nil
}

func (r *taskRepository) Get(ctx context.Context, taskID string) (*repository.Task, error) {
	defer r.s.read(ctx)()

	t, ok := r.s.d.tasks[taskID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(t), nil
}

func (r *taskRepository) ListByList(ctx context.Context, listID string) ([]*repository.Task, error) {
	defer r.s.read(ctx)()

	tasks := make([]*repository.Task, 0)
	for _, id := range r.s.d.taskOrder {
		if t, ok := r.s.d.tasks[id]; ok && t.ListID == listID {
			tasks = append(tasks, copyTask(t))
		}
	}
	return tasks, nil
}

func (r *taskRepository) Patch(ctx context.Context, patch *repository.TaskPatch) (*repository.Task, error) {
	defer r.s.write(ctx)()

	d := r.s.d
	t, ok := d.tasks[patch.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.ListID != nil {
		if _, ok := d.lists[*patch.ListID]; !ok {
			return nil, errors.Wrap(repository.ErrNotFound, "tasks_list_id_fkey")
		}
		t.ListID = *patch.ListID
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if !patch.Description.IsUnset() {
		t.Description = patch.Description.MustPtr()
	}
	if !patch.DueDate.IsUnset() {
		t.DueDate = patch.DueDate.MustPtr()
	}
	if !patch.AssignedTo.IsUnset() {
		t.AssignedTo = patch.AssignedTo.MustPtr()
	}
	d.tasks[t.ID] = t

	return copyTask(t), nil
}

func (r *taskRepository) Delete(ctx context.Context, taskID string) error {
	defer r.s.write(ctx)()

	d := r.s.d
	if _, ok := d.tasks[taskID]; !ok {
		return repository.ErrNotFound
	}
	delete(d.tasks, taskID)
	d.taskOrder = slices.DeleteFunc(d.taskOrder, func(id string) bool { return id == taskID })
	return nil
}

package access

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/repository"
)

// MissingError reports which link of the ownership chain could not be found.
type MissingError struct {
	Entity string
}

func (e *MissingError) Error() string {
	return e.Entity + " not found"
}

func (e *MissingError) Is(target error) bool {
	return target == repository.ErrNotFound
}

type Resolver struct {
	boards repository.BoardRepository
	lists  repository.ListRepository
	tasks  repository.TaskRepository
}

func NewResolver(
	boards repository.BoardRepository,
	lists repository.ListRepository,
	tasks repository.TaskRepository,
) *Resolver {
	return &Resolver{boards: boards, lists: lists, tasks: tasks}
}

func lookup[T any](ctx context.Context, entity string, get func(context.Context, string) (*T, error), id string) (*T, error) {
	v, err := get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &MissingError{Entity: entity}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s %s", entity, id)
	}
	return v, nil
}

func (r *Resolver) BoardTarget(ctx context.Context, boardID string) (*repository.Board, Target, error) {
	board, err := lookup(ctx, "Board", r.boards.Get, boardID)
	if err != nil {
		return nil, Target{}, err
	}
	return board, Target{TeamID: board.TeamID}, nil
}

func (r *Resolver) ListTarget(ctx context.Context, listID string) (*repository.List, Target, error) {
	list, err := lookup(ctx, "List", r.lists.Get, listID)
	if err != nil {
		return nil, Target{}, err
	}
	_, target, err := r.BoardTarget(ctx, list.BoardID)
	if err != nil {
		return nil, Target{}, err
	}
	return list, target, nil
}

func (r *Resolver) TaskTarget(ctx context.Context, taskID string) (*repository.Task, Target, error) {
	task, err := lookup(ctx, "Task", r.tasks.Get, taskID)
	if err != nil {
		return nil, Target{}, err
	}
	_, target, err := r.ListTarget(ctx, task.ListID)
	if err != nil {
		return nil, Target{}, err
	}
	return task, target, nil
}

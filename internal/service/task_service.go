package service

import (
	"context"

	"github.com/aarondl/opt/omitnull"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/access"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

type TaskService struct {
	resolver *access.Resolver

	tasks repository.TaskRepository
}

func NewTaskService(resolver *access.Resolver) *TaskService {
	return &TaskService{resolver: resolver}
}

func (s *TaskService) CreateTask(ctx context.Context, p *model.Principal, task *model.NewTask) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating task", zap.String("title", task.Title), zap.String("list_id", task.ListID))

	if task.Title == "" || task.ListID == "" {
		return "", NewError(ErrorCodeBadRequest, MsgTaskFieldsRequired)
	}

	_, target, err := s.resolver.ListTarget(ctx, task.ListID)
	if err != nil {
		return "", resolveError(ctx, err)
	}

	if err = access.Authorize(p, access.CreateTask, target); err != nil {
		l.Warn("create task denied", zap.String("by", p.UserID), zap.String("list_id", task.ListID))
		return "", forbidden(err)
	}

	taskRepo := &repository.Task{
		ID:          uuid.NewString(),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		AssignedTo:  task.AssignedTo,
		ListID:      task.ListID,
	}

	err = s.tasks.Create(ctx, taskRepo)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewError(ErrorCodeNotFound, MsgListNotFound)
	}
	if err != nil {
		l.Error("failed to create task", zap.String("list_id", task.ListID), zap.Error(err))
		return "", internalError(err)
	}

	l.Debug("task created", zap.String("task_id", taskRepo.ID))

	return taskRepo.ID, nil
}

// UpdateTask applies only the fields present in upd. Moving the task to another
// list requires permission on the destination as well.
func (s *TaskService) UpdateTask(ctx context.Context, p *model.Principal, taskID string, upd *model.TaskUpdate) *Error {
	l := logger.FromContext(ctx)
	l.Info("updating task", zap.String("task_id", taskID))

	if emptyOrNull(upd.Title) || emptyOrNull(upd.ListID) {
		return NewError(ErrorCodeBadRequest, MsgTaskFieldNotNullable)
	}

	_, target, err := s.resolver.TaskTarget(ctx, taskID)
	if err != nil {
		return resolveError(ctx, err)
	}

	if err = access.Authorize(p, access.UpdateTask, target); err != nil {
		l.Warn("update task denied", zap.String("by", p.UserID), zap.String("task_id", taskID))
		return forbidden(err)
	}

	if listID, ok := upd.ListID.Get(); ok {
		_, dest, err := s.resolver.ListTarget(ctx, listID)
		if err != nil {
			return resolveError(ctx, err)
		}
		if err = access.Authorize(p, access.UpdateTask, dest); err != nil {
			l.Warn("move task denied",
				zap.String("by", p.UserID),
				zap.String("task_id", taskID),
				zap.String("list_id", listID))
			return forbidden(err)
		}
	}

	_, err = s.tasks.Patch(ctx, &repository.TaskPatch{
		ID:          taskID,
		Title:       valuePtr(upd.Title),
		Description: upd.Description,
		DueDate:     upd.DueDate,
		AssignedTo:  upd.AssignedTo,
		ListID:      valuePtr(upd.ListID),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotFound, MsgTaskNotFound)
	}
	if err != nil {
		l.Error("failed to update task", zap.String("task_id", taskID), zap.Error(err))
		return internalError(err)
	}

	l.Debug("task updated", zap.String("task_id", taskID))

	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, p *model.Principal, taskID string) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting task", zap.String("task_id", taskID))

	_, target, err := s.resolver.TaskTarget(ctx, taskID)
	if err != nil {
		return resolveError(ctx, err)
	}

	if err = access.Authorize(p, access.DeleteTask, target); err != nil {
		l.Warn("delete task denied", zap.String("by", p.UserID), zap.String("task_id", taskID))
		return forbidden(err)
	}

	err = s.tasks.Delete(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotFound, MsgTaskNotFound)
	}
	if err != nil {
		l.Error("failed to delete task", zap.String("task_id", taskID), zap.Error(err))
		return internalError(err)
	}

	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, p *model.Principal, listID string) ([]*model.Task, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("listing tasks", zap.String("list_id", listID))

	_, target, err := s.resolver.ListTarget(ctx, listID)
	if err != nil {
		return nil, resolveError(ctx, err)
	}

	if err = access.Authorize(p, access.ListTasks, target); err != nil {
		l.Warn("list tasks denied", zap.String("by", p.UserID), zap.String("list_id", listID))
		return nil, forbidden(err)
	}

	tasksRepo, err := s.tasks.ListByList(ctx, listID)
	if err != nil {
		l.Error("failed to list tasks", zap.String("list_id", listID), zap.Error(err))
		return nil, internalError(err)
	}

	tasks := make([]*model.Task, 0, len(tasksRepo))
	for _, task := range tasksRepo {
		tasks = append(tasks, &model.Task{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			DueDate:     task.DueDate,
			AssignedTo:  task.AssignedTo,
			ListID:      task.ListID,
		})
	}

	return tasks, nil
}

func (s *TaskService) WithTaskRepo(r repository.TaskRepository) *TaskService {
	s.tasks = r
	return s
}

func emptyOrNull(v omitnull.Val[string]) bool {
	if v.IsNull() {
		return true
	}
	s, ok := v.Get()
	return ok && s == ""
}

// valuePtr is nil unless v holds a value.
func valuePtr(v omitnull.Val[string]) *string {
	if s, ok := v.Get(); ok {
		return &s
	}
	return nil
}

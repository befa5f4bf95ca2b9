package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/access"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

type ListService struct {
	resolver *access.Resolver

	lists repository.ListRepository
}

func NewListService(resolver *access.Resolver) *ListService {
	return &ListService{resolver: resolver}
}

func (s *ListService) CreateList(ctx context.Context, p *model.Principal, name, boardID string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating list", zap.String("list_name", name), zap.String("board_id", boardID))

	if name == "" || boardID == "" {
		return "", NewError(ErrorCodeBadRequest, MsgListFieldsRequired)
	}

	_, target, err := s.resolver.BoardTarget(ctx, boardID)
	if err != nil {
		return "", resolveError(ctx, err)
	}

	if err = access.Authorize(p, access.CreateList, target); err != nil {
		l.Warn("create list denied", zap.String("by", p.UserID), zap.String("board_id", boardID))
		return "", forbidden(err)
	}

	list := &repository.List{
		ID:      uuid.NewString(),
		Name:    name,
		BoardID: boardID,
	}

	err = s.lists.Create(ctx, list)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewError(ErrorCodeNotFound, MsgBoardNotFound)
	}
	if err != nil {
		l.Error("failed to create list", zap.String("board_id", boardID), zap.Error(err))
		return "", internalError(err)
	}

	l.Debug("list created", zap.String("list_id", list.ID))

	return list.ID, nil
}

func (s *ListService) ListLists(ctx context.Context, p *model.Principal, boardID string) ([]*model.List, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("listing lists", zap.String("board_id", boardID))

	_, target, err := s.resolver.BoardTarget(ctx, boardID)
	if err != nil {
		return nil, resolveError(ctx, err)
	}

	if err = access.Authorize(p, access.ListLists, target); err != nil {
		l.Warn("list lists denied", zap.String("by", p.UserID), zap.String("board_id", boardID))
		return nil, forbidden(err)
	}

	listsRepo, err := s.lists.ListByBoard(ctx, boardID)
	if err != nil {
		l.Error("failed to list lists", zap.String("board_id", boardID), zap.Error(err))
		return nil, internalError(err)
	}

	lists := make([]*model.List, 0, len(listsRepo))
	for _, list := range listsRepo {
		lists = append(lists, &model.List{
			ID:   list.ID,
			Name: list.Name,
		})
	}

	return lists, nil
}

func (s *ListService) WithListRepo(r repository.ListRepository) *ListService {
	s.lists = r
	return s
}

// resolveError turns a failed ownership lookup into NOT_FOUND naming the missing entity.
func resolveError(ctx context.Context, err error) *Error {
	var missing *access.MissingError
	if errors.As(err, &missing) {
		logger.FromContext(ctx).Warn("entity not found", zap.String("entity", missing.Entity))
		return NewError(ErrorCodeNotFound, missing.Error())
	}
	logger.FromContext(ctx).Error("failed to resolve target", zap.Error(err))
	return internalError(err)
}

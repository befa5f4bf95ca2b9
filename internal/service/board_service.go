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

type BoardService struct {
	teams  repository.TeamRepository
	boards repository.BoardRepository
}

func NewBoardService() *BoardService {
	return &BoardService{}
}

func (b *BoardService) CreateBoard(ctx context.Context, p *model.Principal, name, teamID string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating board", zap.String("board_name", name), zap.String("team_id", teamID))

	if name == "" || teamID == "" {
		return "", NewError(ErrorCodeBadRequest, MsgBoardFieldsRequired)
	}

	if err := b.teamExists(ctx, teamID); err != nil {
		return "", err
	}

	if err := access.Authorize(p, access.CreateBoard, access.Target{TeamID: teamID}); err != nil {
		l.Warn("create board denied", zap.String("by", p.UserID), zap.String("team_id", teamID))
		return "", forbidden(err)
	}

	board := &repository.Board{
		ID:     uuid.NewString(),
		Name:   name,
		TeamID: teamID,
	}

	err := b.boards.Create(ctx, board)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewError(ErrorCodeNotFound, MsgTeamNotFound)
	}
	if err != nil {
		l.Error("failed to create board", zap.String("team_id", teamID), zap.Error(err))
		return "", internalError(err)
	}

	l.Debug("board created", zap.String("board_id", board.ID))

	return board.ID, nil
}

func (b *BoardService) ListBoards(ctx context.Context, p *model.Principal, teamID string) ([]*model.Board, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("listing boards", zap.String("team_id", teamID))

	if err := b.teamExists(ctx, teamID); err != nil {
		return nil, err
	}

	if err := access.Authorize(p, access.ListBoards, access.Target{TeamID: teamID}); err != nil {
		l.Warn("list boards denied", zap.String("by", p.UserID), zap.String("team_id", teamID))
		return nil, forbidden(err)
	}

	boardsRepo, err := b.boards.ListByTeam(ctx, teamID)
	if err != nil {
		l.Error("failed to list boards", zap.String("team_id", teamID), zap.Error(err))
		return nil, internalError(err)
	}

	boards := make([]*model.Board, 0, len(boardsRepo))
	for _, board := range boardsRepo {
		boards = append(boards, &model.Board{
			ID:   board.ID,
			Name: board.Name,
		})
	}

	return boards, nil
}

func (b *BoardService) teamExists(ctx context.Context, teamID string) *Error {
	_, err := b.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.FromContext(ctx).Warn("team not found", zap.String("team_id", teamID))
		return NewError(ErrorCodeNotFound, MsgTeamNotFound)
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return internalError(err)
	}
	return nil
}

func (b *BoardService) WithTeamRepo(r repository.TeamRepository) *BoardService {
	b.teams = r
	return b
}

func (b *BoardService) WithBoardRepo(r repository.BoardRepository) *BoardService {
	b.boards = r
	return b
}

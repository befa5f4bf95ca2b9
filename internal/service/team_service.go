package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/access"
	"github.com/yakoovad/taskboard/internal/db"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

type TeamService struct {
	tx db.Transactor

	users repository.UserRepository
	teams repository.TeamRepository
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx: tx,
	}
}

// CreateTeam inserts the team and promotes its admin in one transaction. The admin
// must not belong to another team yet.
func (t *TeamService) CreateTeam(ctx context.Context, p *model.Principal, name, adminUsername string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating team", zap.String("team_name", name), zap.String("admin_username", adminUsername))

	if err := access.Authorize(p, access.CreateTeam, access.Target{}); err != nil {
		l.Warn("create team denied", zap.String("by", p.UserID))
		return "", forbidden(err)
	}

	if name == "" || adminUsername == "" {
		return "", NewError(ErrorCodeBadRequest, MsgTeamFieldsRequired)
	}

	teamID := uuid.NewString()

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		admin, err := t.users.GetByUsername(txCtx, adminUsername)
		if errors.Is(err, repository.ErrNotFound) {
			l.Warn("team admin not found", zap.String("admin_username", adminUsername))
			return NewError(ErrorCodeNotFound, MsgTeamAdminNotFound)
		}
		if err != nil {
			l.Error("failed to get team admin", zap.String("admin_username", adminUsername), zap.Error(err))
			return internalError(err)
		}
		if admin.TeamID != nil {
			l.Warn("team admin already in a team",
				zap.String("admin_username", adminUsername),
				zap.String("team_id", *admin.TeamID))
			return NewError(ErrorCodeConflict, MsgUserHasTeam)
		}

		err = t.teams.Create(txCtx, &repository.Team{
			ID:      teamID,
			Name:    name,
			AdminID: admin.ID,
		})
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("team already exists", zap.String("team_name", name))
			return NewError(ErrorCodeConflict, MsgTeamExists)
		}
		if err != nil {
			l.Error("failed to create team", zap.String("team_name", name), zap.Error(err))
			return internalError(err)
		}

		isTeamAdmin := true
		if _, err = t.users.Patch(txCtx, &repository.UserPatch{
			ID:          admin.ID,
			IsTeamAdmin: &isTeamAdmin,
			TeamID:      &teamID,
		}); err != nil {
			l.Error("failed to promote team admin",
				zap.String("team_id", teamID),
				zap.String("user_id", admin.ID),
				zap.Error(err))
			return internalError(err)
		}

		return nil
	})
	if err != nil {
		return "", asError(err)
	}

	l.Debug("team created", zap.String("team_id", teamID))

	return teamID, nil
}

// ListTeams returns every team to the global admin and the caller's own team to
// everyone else.
func (t *TeamService) ListTeams(ctx context.Context, p *model.Principal) ([]*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("listing teams", zap.String("user_id", p.UserID))

	var teamsRepo []*repository.Team

	switch {
	case p.IsAdmin:
		all, err := t.teams.List(ctx)
		if err != nil {
			l.Error("failed to list teams", zap.Error(err))
			return nil, internalError(err)
		}
		teamsRepo = all
	case p.HasTeam():
		team, err := t.teams.Get(ctx, p.TeamID)
		if errors.Is(err, repository.ErrNotFound) {
			break
		}
		if err != nil {
			l.Error("failed to get team", zap.String("team_id", p.TeamID), zap.Error(err))
			return nil, internalError(err)
		}
		if access.Authorize(p, access.ReadTeam, access.Target{TeamID: team.ID}) == nil {
			teamsRepo = append(teamsRepo, team)
		}
	}

	teams := make([]*model.Team, 0, len(teamsRepo))
	for _, team := range teamsRepo {
		teams = append(teams, &model.Team{
			ID:   team.ID,
			Name: team.Name,
		})
	}

	return teams, nil
}

func (t *TeamService) WithUserRepo(r repository.UserRepository) *TeamService {
	t.users = r
	return t
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

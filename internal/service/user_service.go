package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/access"
	"github.com/yakoovad/taskboard/internal/auth"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService() *UserService {
	return &UserService{}
}

// CreateUser registers a regular user without a team.
func (u *UserService) CreateUser(ctx context.Context, p *model.Principal, username, password string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating user", zap.String("username", username), zap.String("by", p.UserID))

	if err := access.Authorize(p, access.CreateUser, access.Target{}); err != nil {
		l.Warn("create user denied", zap.String("by", p.UserID))
		return "", forbidden(err)
	}

	if username == "" || password == "" {
		return "", NewError(ErrorCodeBadRequest, MsgCredentialsRequired)
	}

	_, err := u.users.GetByUsername(ctx, username)
	if err == nil {
		l.Warn("username taken", zap.String("username", username))
		return "", NewError(ErrorCodeConflict, MsgUsernameExists)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		l.Error("failed to look up username", zap.String("username", username), zap.Error(err))
		return "", internalError(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return "", internalError(err)
	}

	user := &repository.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}

	err = u.users.Create(ctx, user)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return "", NewError(ErrorCodeConflict, MsgUsernameExists)
	}
	if err != nil {
		l.Error("failed to create user", zap.String("username", username), zap.Error(err))
		return "", internalError(err)
	}

	l.Debug("user created", zap.String("user_id", user.ID))

	return user.ID, nil
}

func (u *UserService) WithUserRepo(userRepo repository.UserRepository) *UserService {
	u.users = userRepo
	return u
}

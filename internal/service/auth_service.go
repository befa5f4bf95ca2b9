package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/auth"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

type AuthService struct {
	tokens *auth.Tokens

	users repository.UserRepository
}

func NewAuthService(tokens *auth.Tokens) *AuthService {
	return &AuthService{tokens: tokens}
}

func (a *AuthService) Login(ctx context.Context, username, password string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("login attempt", zap.String("username", username))

	if username == "" || password == "" {
		return "", NewError(ErrorCodeUnauthorized, MsgInvalidCredentials)
	}

	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("login for unknown user", zap.String("username", username))
		return "", NewError(ErrorCodeUnauthorized, MsgInvalidCredentials)
	}
	if err != nil {
		l.Error("failed to get user", zap.String("username", username), zap.Error(err))
		return "", internalError(err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		l.Warn("wrong password", zap.String("username", username))
		return "", NewError(ErrorCodeUnauthorized, MsgInvalidCredentials)
	}

	token, err := a.tokens.GenerateToken(claimsFromUser(user))
	if err != nil {
		l.Error("failed to generate token", zap.String("user_id", user.ID), zap.Error(err))
		return "", internalError(err)
	}

	l.Debug("login successful", zap.String("user_id", user.ID))

	return token, nil
}

// RegisterAdmin creates the global admin. It succeeds once; afterwards every call
// is rejected with CONFLICT before the payload is looked at.
func (a *AuthService) RegisterAdmin(ctx context.Context, username, password string) (string, *Error) {
	l := logger.FromContext(ctx)
	l.Info("registering admin", zap.String("username", username))

	exists, err := a.users.HasAdmin(ctx)
	if err != nil {
		l.Error("failed to check admin", zap.Error(err))
		return "", internalError(err)
	}
	if exists {
		l.Warn("admin already exists")
		return "", NewError(ErrorCodeConflict, MsgAdminExists)
	}

	if username == "" || password == "" {
		return "", NewError(ErrorCodeBadRequest, MsgCredentialsRequired)
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
		IsAdmin:      true,
	}

	// A concurrent registration loses on the single-admin index.
	if err = a.users.Create(ctx, user); errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("admin registration lost the race", zap.String("username", username))
		return "", NewError(ErrorCodeConflict, MsgAdminExists)
	} else if err != nil {
		l.Error("failed to create admin", zap.String("username", username), zap.Error(err))
		return "", internalError(err)
	}

	l.Debug("admin registered", zap.String("user_id", user.ID))

	return user.ID, nil
}

// Authenticate verifies the token and rebuilds the principal from the stored user,
// so role changes take effect before the token expires.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*model.Principal, *Error) {
	l := logger.FromContext(ctx)

	if token == "" {
		return nil, NewError(ErrorCodeUnauthorized, MsgTokenMissing)
	}

	claims, err := a.tokens.VerifyToken(token)
	if errors.Is(err, auth.ErrExpiredToken) {
		l.Debug("token expired", zap.Error(err))
		return nil, NewError(ErrorCodeUnauthorized, MsgTokenExpired).WithCause(err)
	}
	if err != nil {
		l.Debug("token rejected", zap.Error(err))
		return nil, NewError(ErrorCodeUnauthorized, MsgTokenInvalid).WithCause(err)
	}

	user, err := a.users.Get(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("token for missing user", zap.String("user_id", claims.UserID))
		return nil, NewError(ErrorCodeUnauthorized, MsgUserNotFound)
	}
	if err != nil {
		l.Error("failed to get user", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, internalError(err)
	}

	return principalFromUser(user), nil
}

func (a *AuthService) WithUserRepo(r repository.UserRepository) *AuthService {
	a.users = r
	return a
}

func principalFromUser(u *repository.User) *model.Principal {
	p := &model.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		IsAdmin:     u.IsAdmin,
		IsTeamAdmin: u.IsTeamAdmin,
	}
	if u.TeamID != nil {
		p.TeamID = *u.TeamID
	}
	return p
}

func claimsFromUser(u *repository.User) auth.UserClaims {
	p := principalFromUser(u)
	return auth.UserClaims{
		UserID:      p.UserID,
		Username:    p.Username,
		IsAdmin:     p.IsAdmin,
		IsTeamAdmin: p.IsTeamAdmin,
		TeamID:      p.TeamID,
	}
}

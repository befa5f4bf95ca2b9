package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/taskboard/internal/auth"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func strPtr(s string) *string { return &s }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Login(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	tests := []struct {
		name          string
		username      string
		password      string
		setupMocks    func(*testing.T, *MockUserRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:     "success",
			username: "alice",
			password: "pw",
			setupMocks: func(t *testing.T, ur *MockUserRepository) {
				ur.On("GetByUsername", mock.Anything, "alice").Return(&repository.User{
					ID:           "u1",
					Username:     "alice",
					PasswordHash: mustHash(t, "pw"),
					TeamID:       strPtr("t1"),
				}, nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "nope",
			setupMocks: func(t *testing.T, ur *MockUserRepository) {
				ur.On("GetByUsername", mock.Anything, "alice").Return(&repository.User{
					ID:           "u1",
					Username:     "alice",
					PasswordHash: mustHash(t, "pw"),
				}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "pw",
			setupMocks: func(t *testing.T, ur *MockUserRepository) {
				ur.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:     "storage failure",
			username: "alice",
			password: "pw",
			setupMocks: func(t *testing.T, ur *MockUserRepository) {
				ur.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeInternal,
		},
		{
			name:          "missing username",
			password:      "pw",
			setupMocks:    func(t *testing.T, ur *MockUserRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:          "missing password",
			username:      "alice",
			setupMocks:    func(t *testing.T, ur *MockUserRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			tt.setupMocks(t, mockUserRepo)

			service := NewAuthService(tokens).WithUserRepo(mockUserRepo)

			token, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Empty(t, token)
			} else {
				require.Nil(t, err)
				claims, verr := tokens.VerifyToken(token)
				require.NoError(t, verr)
				assert.Equal(t, "u1", claims.UserID)
				assert.Equal(t, "t1", claims.TeamID)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMocks    func(*MockUserRepository)
		expectedError bool
		errorCode     ErrorCode
		message       string
	}{
		{
			name:     "first admin",
			username: "root",
			password: "pw",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("HasAdmin", mock.Anything).Return(false, nil)
				ur.On("Create", mock.Anything, mock.MatchedBy(func(u *repository.User) bool {
					return u.Username == "root" && u.IsAdmin && u.ID != "" && auth.CheckPassword("pw", u.PasswordHash)
				})).Return(nil)
			},
		},
		{
			name:     "admin exists ignores payload",
			username: "",
			password: "",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("HasAdmin", mock.Anything).Return(true, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeConflict,
			message:       MsgAdminExists,
		},
		{
			name:     "missing password",
			username: "root",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("HasAdmin", mock.Anything).Return(false, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeBadRequest,
			message:       MsgCredentialsRequired,
		},
		{
			name:     "concurrent registration",
			username: "root",
			password: "pw",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("HasAdmin", mock.Anything).Return(false, nil)
				ur.On("Create", mock.Anything, mock.Anything).Return(errors.Wrap(repository.ErrAlreadyExists, "users_single_admin"))
			},
			expectedError: true,
			errorCode:     ErrorCodeConflict,
			message:       MsgAdminExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			tt.setupMocks(mockUserRepo)

			service := NewAuthService(auth.NewTokens("secret", time.Hour)).WithUserRepo(mockUserRepo)

			id, err := service.RegisterAdmin(context.Background(), tt.username, tt.password)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Equal(t, tt.message, err.Message)
			} else {
				require.Nil(t, err)
				assert.NotEmpty(t, id)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	valid, err := tokens.GenerateToken(auth.UserClaims{UserID: "u1", Username: "alice", IsAdmin: true})
	require.NoError(t, err)

	expired, err := auth.NewTokens("secret", time.Nanosecond).GenerateToken(auth.UserClaims{UserID: "u1"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMocks    func(*MockUserRepository)
		expected      *model.Principal
		expectedError bool
		message       string
	}{
		{
			name:  "stored roles win over token claims",
			token: valid,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, "u1").Return(&repository.User{
					ID:          "u1",
					Username:    "alice",
					IsTeamAdmin: true,
					TeamID:      strPtr("t1"),
				}, nil)
			},
			expected: &model.Principal{UserID: "u1", Username: "alice", IsTeamAdmin: true, TeamID: "t1"},
		},
		{
			name:          "missing token",
			token:         "",
			setupMocks:    func(ur *MockUserRepository) {},
			expectedError: true,
			message:       MsgTokenMissing,
		},
		{
			name:          "garbage token",
			token:         "not-a-jwt",
			setupMocks:    func(ur *MockUserRepository) {},
			expectedError: true,
			message:       MsgTokenInvalid,
		},
		{
			name:          "expired token",
			token:         expired,
			setupMocks:    func(ur *MockUserRepository) {},
			expectedError: true,
			message:       MsgTokenExpired,
		},
		{
			name:  "user deleted",
			token: valid,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, "u1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			message:       MsgUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			tt.setupMocks(mockUserRepo)

			service := NewAuthService(tokens).WithUserRepo(mockUserRepo)

			got, err := service.Authenticate(context.Background(), tt.token)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, ErrorCodeUnauthorized, err.Code)
				assert.Equal(t, tt.message, err.Message)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.expected, got)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

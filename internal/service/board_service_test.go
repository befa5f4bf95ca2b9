package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/repository"
)

func TestBoardService_CreateBoard(t *testing.T) {
	tests := []struct {
		name          string
		principal     *model.Principal
		boardName     string
		teamID        string
		setupMocks    func(*MockTeamRepository, *MockBoardRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:      "team admin",
			principal: lead,
			boardName: "Sprint1",
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
				br.On("Create", mock.Anything, mock.MatchedBy(func(b *repository.Board) bool {
					return b.Name == "Sprint1" && b.TeamID == "t1"
				})).Return(nil)
			},
		},
		{
			name:      "global admin on any team",
			principal: admin,
			boardName: "Sprint1",
			teamID:    "t2",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t2").Return(&repository.Team{ID: "t2"}, nil)
				br.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:      "plain member",
			principal: member,
			boardName: "Sprint1",
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:      "team admin of another team",
			principal: outsider,
			boardName: "Sprint1",
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:          "missing name",
			principal:     lead,
			teamID:        "t1",
			setupMocks:    func(tr *MockTeamRepository, br *MockBoardRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeBadRequest,
		},
		{
			name:      "unknown team",
			principal: lead,
			boardName: "Sprint1",
			teamID:    "t9",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t9").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:      "storage failure",
			principal: lead,
			boardName: "Sprint1",
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
				br.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamRepo := new(MockTeamRepository)
			mockBoardRepo := new(MockBoardRepository)
			tt.setupMocks(mockTeamRepo, mockBoardRepo)

			service := NewBoardService().
				WithTeamRepo(mockTeamRepo).
				WithBoardRepo(mockBoardRepo)

			id, err := service.CreateBoard(context.Background(), tt.principal, tt.boardName, tt.teamID)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Empty(t, id)
			} else {
				require.Nil(t, err)
				assert.NotEmpty(t, id)
			}

			mockTeamRepo.AssertExpectations(t)
			mockBoardRepo.AssertExpectations(t)
		})
	}
}

func TestBoardService_ListBoards(t *testing.T) {
	tests := []struct {
		name          string
		principal     *model.Principal
		teamID        string
		setupMocks    func(*MockTeamRepository, *MockBoardRepository)
		expected      []*model.Board
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:      "member",
			principal: member,
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
				br.On("ListByTeam", mock.Anything, "t1").Return([]*repository.Board{
					{ID: "b1", Name: "Sprint1", TeamID: "t1"},
				}, nil)
			},
			expected: []*model.Board{{ID: "b1", Name: "Sprint1"}},
		},
		{
			name:      "empty team",
			principal: admin,
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
				br.On("ListByTeam", mock.Anything, "t1").Return([]*repository.Board{}, nil)
			},
			expected: []*model.Board{},
		},
		{
			name:      "other team",
			principal: outsider,
			teamID:    "t1",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t1").Return(&repository.Team{ID: "t1"}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:      "unknown team",
			principal: admin,
			teamID:    "t9",
			setupMocks: func(tr *MockTeamRepository, br *MockBoardRepository) {
				tr.On("Get", mock.Anything, "t9").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamRepo := new(MockTeamRepository)
			mockBoardRepo := new(MockBoardRepository)
			tt.setupMocks(mockTeamRepo, mockBoardRepo)

			service := NewBoardService().
				WithTeamRepo(mockTeamRepo).
				WithBoardRepo(mockBoardRepo)

			got, err := service.ListBoards(context.Background(), tt.principal, tt.teamID)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.expected, got)
			}

			mockTeamRepo.AssertExpectations(t)
			mockBoardRepo.AssertExpectations(t)
		})
	}
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/taskboard/internal/access"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/service"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) CreateTeam(e echo.Context, p *model.Principal) error {
	l := logger.FromContext(e.Request().Context())

	if err := requireAdmin(p, access.CreateTeam); err != nil {
		l.Warn("create team denied", zap.String("by", p.UserID))
		return h.transportError(e, err)
	}

	var req struct {
		Name          string `json:"name"`
		AdminUsername string `json:"admin_username"`
	}
	if err := decodeRequest(e, &req, service.MsgTeamFieldsRequired); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, err)
	}

	id, err := h.teams.CreateTeam(e.Request().Context(), p, req.Name, req.AdminUsername)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, echo.Map{
		"message": "Team created successfully",
		"team_id": id,
	})
}

func (h *Handler) ListTeams(e echo.Context, p *model.Principal) error {
	teams, err := h.teams.ListTeams(e.Request().Context(), p)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) CreateBoard(e echo.Context, p *model.Principal) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Name   string `json:"name" validate:"required"`
		TeamID string `json:"team_id" validate:"required"`
	}
	if err := decodeRequest(e, &req, service.MsgBoardFieldsRequired); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, err)
	}

	id, err := h.boards.CreateBoard(e.Request().Context(), p, req.Name, req.TeamID)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, echo.Map{
		"message":  "Board created successfully",
		"board_id": id,
	})
}

func (h *Handler) ListBoards(e echo.Context, p *model.Principal) error {
	boards, err := h.boards.ListBoards(e.Request().Context(), p, e.Param("id"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, boards)
}

func (h *Handler) CreateList(e echo.Context, p *model.Principal) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Name    string `json:"name" validate:"required"`
		BoardID string `json:"board_id" validate:"required"`
	}
	if err := decodeRequest(e, &req, service.MsgListFieldsRequired); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, err)
	}

	id, err := h.lists.CreateList(e.Request().Context(), p, req.Name, req.BoardID)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, echo.Map{
		"message": "List created successfully",
		"list_id": id,
	})
}

func (h *Handler) ListLists(e echo.Context, p *model.Principal) error {
	lists, err := h.lists.ListLists(e.Request().Context(), p, e.Param("id"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, lists)
}

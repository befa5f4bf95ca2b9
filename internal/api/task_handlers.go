package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/service"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) CreateTask(e echo.Context, p *model.Principal) error {
	l := logger.FromContext(e.Request().Context())

	var req model.NewTask
	if err := decodeRequest(e, &req, service.MsgTaskFieldsRequired); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, err)
	}

	id, err := h.tasks.CreateTask(e.Request().Context(), p, &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, echo.Map{
		"message": "Task created successfully",
		"task_id": id,
	})
}

func (h *Handler) UpdateTask(e echo.Context, p *model.Principal) error {
	l := logger.FromContext(e.Request().Context())

	taskID := e.Param("id")

	var req model.TaskUpdate
	if err := decodeRequest(e, &req, msgInvalidBody); err != nil {
		l.Warn("invalid request", zap.String("task_id", taskID), zap.Error(err))
		return h.transportError(e, err)
	}

	if err := h.tasks.UpdateTask(e.Request().Context(), p, taskID, &req); err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, messageResponse{Message: "Task updated successfully"})
}

func (h *Handler) DeleteTask(e echo.Context, p *model.Principal) error {
	if err := h.tasks.DeleteTask(e.Request().Context(), p, e.Param("id")); err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (h *Handler) ListTasks(e echo.Context, p *model.Principal) error {
	tasks, err := h.tasks.ListTasks(e.Request().Context(), p, e.Param("id"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, tasks)
}

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

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login leaves empty credentials to the service, which answers them like wrong ones.
func (h *Handler) Login(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req credentialsRequest
	if err := decodeRequest(e, &req, msgInvalidBody); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, err)
	}

	token, err := h.auth.Login(e.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// RegisterAdmin answers 409 once an admin exists whatever the body holds, so a
// malformed body is not rejected up front.
func (h *Handler) RegisterAdmin(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req credentialsRequest
	if err := bind(e, &req); err != nil {
		l.Debug("unreadable register_admin body", zap.Error(err))
	}

	if _, err := h.auth.RegisterAdmin(e.Request().Context(), req.Username, req.Password); err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, messageResponse{Message: "Admin user created successfully"})
}

func (h *Handler) CreateUser(e echo.Context, p *model.Principal) error {
	l := logger.FromContext(e.Request().Context())

	if err := requireAdmin(p, access.CreateUser); err != nil {
		l.Warn("create user denied", zap.String("by", p.UserID))
		return h.transportError(e, err)
	}

	var req credentialsRequest
	if err := decodeRequest(e, &req, service.MsgCredentialsRequired); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, err)
	}

	id, err := h.users.CreateUser(e.Request().Context(), p, req.Username, req.Password)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user_id": id,
	})
}

// requireAdmin rejects admin-only actions before the body is read.
func requireAdmin(p *model.Principal, action access.Action) *service.Error {
	if err := access.Authorize(p, action, access.Target{}); err != nil {
		return service.NewError(service.ErrorCodeForbidden, service.MsgPermissionDenied).WithCause(err)
	}
	return nil
}

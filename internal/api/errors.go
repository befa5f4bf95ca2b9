package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/taskboard/internal/service"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var statusByCode = map[service.ErrorCode]int{
	service.ErrorCodeBadRequest:   http.StatusBadRequest,
	service.ErrorCodeUnauthorized: http.StatusUnauthorized,
	service.ErrorCodeForbidden:    http.StatusForbidden,
	service.ErrorCodeNotFound:     http.StatusNotFound,
	service.ErrorCodeConflict:     http.StatusConflict,
	service.ErrorCodeInternal:     http.StatusInternalServerError,
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	status, ok := statusByCode[err.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	response := errorResponse{Error: err.Message}
	if status == http.StatusInternalServerError {
		response.Detail = causeDetail(err)
	}

	return e.JSON(status, response)
}

func causeDetail(err *service.Error) string {
	if err.Cause == nil {
		return ""
	}
	return err.Cause.Error()
}

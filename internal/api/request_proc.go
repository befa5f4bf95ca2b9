package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/taskboard/internal/service"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body"

func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) error) error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

func bind[T any](e echo.Context, req *T) error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeBadRequest, msgInvalidBody).WithCause(err)
	}
	return nil
}

// validate rejects req with the operation's own message when a required field is missing.
func validate[T any](message string) func(echo.Context, *T) error {
	return func(e echo.Context, req *T) error {
		if err := e.Validate(req); err != nil {
			logger.FromContext(e.Request().Context()).Debug("request validation failed",
				zap.Strings("fields", fieldErrors(err)))
			return service.NewError(service.ErrorCodeBadRequest, message).WithCause(err)
		}
		return nil
	}
}

// decodeRequest binds and validates req. The returned error is always a *service.Error.
func decodeRequest[T any](e echo.Context, req *T, message string) *service.Error {
	err := ProcessRequest(e, req, bind[T], validate[T](message))
	if err == nil {
		return nil
	}
	return err.(*service.Error)
}

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/taskboard/internal/model"
	"github.com/yakoovad/taskboard/internal/service"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

const principalKey = "principal"

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// AuthMiddleware resolves the bearer token into a principal. Rejections use the
// {"message": ...} envelope that existing clients expect from this layer.
func AuthMiddleware(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logger.FromContext(req.Context())

			token, _ := strings.CutPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer ")

			principal, err := auth.Authenticate(req.Context(), strings.TrimSpace(token))
			if err != nil {
				if err.Code == service.ErrorCodeInternal {
					l.Error("authentication failed", zap.Error(err.Cause))
					return c.JSON(http.StatusInternalServerError, echo.Map{
						"message": err.Message,
						"error":   causeDetail(err),
					})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": err.Message})
			}

			reqLogger := l.With(zap.String("user_id", principal.UserID))
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), reqLogger)))
			c.Set(principalKey, principal)

			return next(c)
		}
	}
}

// withPrincipal hands the authenticated caller to fn as an explicit argument.
func withPrincipal(fn func(echo.Context, *model.Principal) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := c.Get(principalKey).(*model.Principal)
		if !ok || p == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": service.MsgTokenMissing})
		}
		return fn(c, p)
	}
}

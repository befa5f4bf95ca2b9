package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yakoovad/taskboard/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	auth   *service.AuthService
	users  *service.UserService
	teams  *service.TeamService
	boards *service.BoardService
	lists  *service.ListService
	tasks  *service.TaskService

	healthChecker HealthChecker
	allowOrigins  []string

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithAllowOrigins(origins []string) *Handler {
	h.allowOrigins = origins
	return h
}

func (h *Handler) WithAuthService(auth *service.AuthService) *Handler {
	h.auth = auth
	return h
}

func (h *Handler) WithUserService(users *service.UserService) *Handler {
	h.users = users
	return h
}

func (h *Handler) WithTeamService(teams *service.TeamService) *Handler {
	h.teams = teams
	return h
}

func (h *Handler) WithBoardService(boards *service.BoardService) *Handler {
	h.boards = boards
	return h
}

func (h *Handler) WithListService(lists *service.ListService) *Handler {
	h.lists = lists
	return h
}

func (h *Handler) WithTaskService(tasks *service.TaskService) *Handler {
	h.tasks = tasks
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())

	cors := middleware.DefaultCORSConfig
	if len(h.allowOrigins) > 0 {
		cors.AllowOrigins = h.allowOrigins
	}
	e.Use(middleware.CORSWithConfig(cors))

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	api := e.Group("/api")

	api.POST("/login", h.Login)
	api.POST("/register_admin", h.RegisterAdmin)

	secured := api.Group("", AuthMiddleware(h.auth))

	secured.POST("/users", withPrincipal(h.CreateUser))

	secured.POST("/teams", withPrincipal(h.CreateTeam))
	secured.GET("/teams", withPrincipal(h.ListTeams))

	// :id is the team id on the first route and the board id on the second.
	secured.POST("/boards", withPrincipal(h.CreateBoard))
	secured.GET("/boards/:id", withPrincipal(h.ListBoards))
	secured.GET("/boards/:id/lists", withPrincipal(h.ListLists))

	secured.POST("/lists", withPrincipal(h.CreateList))
	secured.GET("/lists/:id/tasks", withPrincipal(h.ListTasks))

	secured.POST("/tasks", withPrincipal(h.CreateTask))
	secured.PUT("/tasks/:id", withPrincipal(h.UpdateTask))
	secured.DELETE("/tasks/:id", withPrincipal(h.DeleteTask))
}

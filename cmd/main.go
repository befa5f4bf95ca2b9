package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/access"
	"github.com/yakoovad/taskboard/internal/api"
	"github.com/yakoovad/taskboard/internal/auth"
	"github.com/yakoovad/taskboard/internal/config"
	"github.com/yakoovad/taskboard/internal/db"
	"github.com/yakoovad/taskboard/internal/repository"
	"github.com/yakoovad/taskboard/internal/repository/memory"
	"github.com/yakoovad/taskboard/internal/service"
	"github.com/yakoovad/taskboard/pkg/logger"
	"go.uber.org/zap"
)

const version = "v0.1.0"

type storage struct {
	tx     db.Transactor
	pinger api.Pinger

	users  repository.UserRepository
	teams  repository.TeamRepository
	boards repository.BoardRepository
	lists  repository.ListRepository
	tasks  repository.TaskRepository

	close func()
}

func openStorage(ctx context.Context, cfg *config.Config, l *zap.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		l.Warn("using in-memory storage, data is lost on restart")

		store := memory.NewStore()
		return &storage{
			tx:     store.Transactor(),
			pinger: store,
			users:  store.Users(),
			teams:  store.Teams(),
			boards: store.Boards(),
			lists:  store.Lists(),
			tasks:  store.Tasks(),
			close:  func() {},
		}, nil

	case config.StorageDriverPostgres:
		if err := db.Migrate(ctx, cfg.Postgres.DSN()); err != nil {
			return nil, errors.Wrap(err, "apply migrations")
		}
		l.Info("migrations applied")

		pool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		l.Info("database connection established")

		return &storage{
			tx:     db.NewPgxTransactor(pool),
			pinger: pool,
			users:  repository.NewPgxUserRepository(pool),
			teams:  repository.NewPgxTeamRepository(pool),
			boards: repository.NewPgxBoardRepository(pool),
			lists:  repository.NewPgxListRepository(pool),
			tasks:  repository.NewPgxTaskRepository(pool),
			close:  pool.Close,
		}, nil
	}

	return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application", zap.String("version", version), zap.String("storage", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.close()

	if cfg.Auth.BcryptCost > 0 {
		auth.PasswordCost = cfg.Auth.BcryptCost
	}
	tokens := auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	resolver := access.NewResolver(store.boards, store.lists, store.tasks)

	authService := service.NewAuthService(tokens).WithUserRepo(store.users)
	users := service.NewUserService().WithUserRepo(store.users)
	teams := service.NewTeamService(store.tx).WithUserRepo(store.users).WithTeamRepo(store.teams)
	boards := service.NewBoardService().WithTeamRepo(store.teams).WithBoardRepo(store.boards)
	lists := service.NewListService(resolver).WithListRepo(store.lists)
	tasks := service.NewTaskService(resolver).WithTaskRepo(store.tasks)

	checker, err := api.NewHealthChecker(version, api.StorageCheck(cfg.Storage.Driver, store.pinger))
	if err != nil {
		log.Fatal("failed to create health checker", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	api.NewHandler(log).
		WithHealthChecker(checker).
		WithAllowOrigins(cfg.CORS.AllowOrigins).
		WithAuthService(authService).
		WithUserService(users).
		WithTeamService(teams).
		WithBoardService(boards).
		WithListService(lists).
		WithTaskService(tasks).
		RegisterRoutes(e)

	go func() {
		log.Info("server starting", zap.String("addr", cfg.ServerAddr()))
		if err := e.Start(cfg.ServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

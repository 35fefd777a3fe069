package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/task-service/internal/api/http"
	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/config"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/observability"
	"github.com/spec-kit/task-service/internal/persistence"
	"github.com/spec-kit/task-service/internal/ratelimit"
	"github.com/spec-kit/task-service/internal/repository"
	"github.com/spec-kit/task-service/internal/repository/memory"
	"github.com/spec-kit/task-service/internal/repository/mongodb"
	"github.com/spec-kit/task-service/internal/repository/postgres"
	"github.com/spec-kit/task-service/internal/service"
	"github.com/spec-kit/task-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type store struct {
	repos  repository.Repositories
	pinger repository.Pinger
	close  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer st.close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	activityService := service.NewActivityService(service.ActivityDependencies{
		Dispatcher: dispatcher,
		Feed:       repository.NewActivityRepository(redis.Client, cfg.Activity.StreamKey, cfg.Activity.MaxLen),
		Counter:    metrics,
		Logger:     logger,
	})
	worker.StartActivityWorker(activityService)

	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   st.repos.Users,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:    st.repos.Tasks,
		UserRepo:    st.repos.Users,
		CommentRepo: st.repos.Comments,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: st.repos.Comments,
		TaskRepo:    st.repos.Tasks,
		UserRepo:    st.repos.Users,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		Users:        userService,
		TokenManager: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), st.repos.Users, cfg.Auth.RequireToken)

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
	}, httptransport.RouteConfig{
		APIPrefix: cfg.App.APIPrefix,
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Dependency{Name: cfg.Store.Driver, Pinger: st.pinger},
			handlers.Dependency{Name: "redis", Pinger: redis},
		),
		Users:          handlers.NewUsersHandler(userService, authService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Activity:       handlers.NewActivityHandler(activityService),
		AuthMiddleware: authMiddleware,
		RateLimiter:    ratelimit.New(redis.Client, "", cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:        metrics,
		Logger:         logger,
	})

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("require_token", cfg.Auth.RequireToken))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		mem := memory.NewStore()
		logger.Warn("using in-memory store; data is lost on restart")
		return &store{repos: mem.Repositories(), pinger: mem, close: func() {}}, nil

	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &store{repos: postgres.NewRepositories(pg.PoolHandle()), pinger: pg, close: pg.Close}, nil

	case config.DriverMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout())
			defer cancel()
			mg.Close(closeCtx)
		}
		return &store{repos: mongodb.NewRepositories(mg.Database), pinger: mg, close: closeFn}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/observability"
	"github.com/spec-kit/task-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix      string
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tasks          *handlers.TasksHandler
	Comments       *handlers.CommentsHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *ratelimit.Limiter
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// ServerConfig holds the Fiber app settings.
type ServerConfig struct {
	AppName        string
	RequestTimeout time.Duration
}

// NewServer builds the Fiber app with middlewares and routes attached.
func NewServer(server ServerConfig, routes RouteConfig) *fiber.App {
	if routes.Logger == nil {
		routes.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               server.AppName,
		DisableStartupMessage: true,
		// Params and queries outlive the request once stored.
		Immutable: true,
	})
	RegisterMiddlewares(app, routes.Logger, routes.Metrics, server.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", handlers.Welcome)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := app.Group(prefix,
		rateLimitMiddleware(cfg.RateLimiter, cfg.Logger, cfg.Metrics),
		cfg.AuthMiddleware.Handle,
	)
	write := cfg.AuthMiddleware.RequireToken

	api.Post("/auth/login", cfg.Users.Login)
	api.Get("/activity", cfg.Activity.Recent)

	api.Get("/users", cfg.Users.List)
	api.Get("/users/search", cfg.Users.Search)
	api.Get("/users/:id", cfg.Users.Get)
	api.Post("/users", write, cfg.Users.Create)
	api.Put("/users/:id", write, cfg.Users.Update)
	api.Delete("/users/:id", write, cfg.Users.Delete)

	api.Get("/tasks/search", cfg.Tasks.Search)
	api.Get("/users/:userId/tasks", cfg.Tasks.List)
	api.Get("/users/:userId/tasks/:taskId", cfg.Tasks.Get)
	api.Post("/users/:userId/tasks", write, cfg.Tasks.Create)
	api.Put("/users/:userId/tasks/:taskId", write, cfg.Tasks.Update)
	api.Delete("/users/:userId/tasks/:taskId", write, cfg.Tasks.Delete)

	api.Get("/comment/search", cfg.Comments.Search)
	api.Get("/tasks/:taskId/comments", cfg.Comments.List)
	api.Get("/tasks/:taskId/comments/:commentId", cfg.Comments.Get)
	api.Post("/tasks/:taskId/comments", write, cfg.Comments.Create)
	api.Put("/tasks/:taskId/comments/:commentId", write, cfg.Comments.Update)
	api.Delete("/tasks/:taskId/comments/:commentId", write, cfg.Comments.Delete)
}

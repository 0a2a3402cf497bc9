// Package server exposes the session manager and the post service over HTTP
// and WebSocket.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"momskitchen/internal/config"
	"momskitchen/internal/kvstore"
	"momskitchen/internal/middleware"
	"momskitchen/internal/models"
	"momskitchen/internal/observability"
	"momskitchen/internal/repository"
	"momskitchen/internal/seed"
	"momskitchen/internal/service"
	"momskitchen/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// initMetrics registers the HTTP collectors once per process.
func initMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMW = fiberprometheus.New(serviceName)
	})
	return promMW
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          kvstore.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	authRepo       repository.AuthRepository
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	session        *session.Manager
	postService    *service.PostService
}

// NewServer opens the configured storage backend and builds a Server on it.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	s, err := NewServerWithDeps(ctx, cfg, store)
	if err != nil {
		_ = kvstore.Close(store)
		return nil, err
	}
	return s, nil
}

// NewServerWithDeps creates a Server on an already opened store. Sample data
// is loaded when the config asks for it.
func NewServerWithDeps(ctx context.Context, cfg *config.Config, store kvstore.Store) (*Server, error) {
	s := &Server{
		config:         cfg,
		store:          store,
		promMiddleware: initMetrics("momskitchen-api"),
		authRepo:       repository.NewAuthRepository(store),
		userRepo:       repository.NewUserRepository(store),
		postRepo:       repository.NewPostRepository(store),
	}
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())

	if cfg.SeedSampleData {
		if err := seed.InitializeSampleData(ctx, s.userRepo, s.postRepo); err != nil {
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
	}

	manager, err := session.NewManager(ctx, s.authRepo, s.userRepo,
		session.WithDefaultAvatar(cfg.DefaultAvatarURL),
		session.WithLogger(observability.GlobalLogger),
	)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.session = manager
	s.postService = service.NewPostService(s.postRepo, session.NewID, session.Now)
	return s, nil
}

// Session returns the process-wide session manager.
func (s *Server) Session() *session.Manager {
	return s.session
}

// App builds the fiber application on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "Mom's Kitchen API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		LimitReached: func(c *fiber.Ctx) error {
			return respondWithError(c, fiber.StatusTooManyRequests,
				models.NewValidationError("Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Use("/ws", s.upgradeOnly)
	app.Get("/ws/session", s.SessionStreamHandler())

	api := app.Group("/api")

	sess := api.Group("/session")
	sess.Get("/", s.GetSession)
	sess.Post("/register", s.Register)
	sess.Post("/login", s.Login)
	sess.Post("/logout", s.Logout)
	sess.Patch("/profile", s.SessionRequired(), s.UpdateProfile)

	api.Get("/categories", s.ListCategories)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", s.SessionRequired(), s.CreatePost)
	posts.Delete("/:id", s.SessionRequired(), s.DeletePost)
	posts.Post("/:id/like", s.SessionRequired(), s.ToggleLike)
	posts.Post("/:id/comments", s.SessionRequired(), s.AddComment)
	posts.Post("/:id/comments/:commentId/like", s.SessionRequired(), s.ToggleCommentLike)

	api.Get("/users/:id/posts", s.ListUserPosts)
}

// SessionRequired rejects requests when nobody is signed in and stores the
// current user in locals.
func (s *Server) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.session.CurrentUser()
		if user == nil {
			return respondWithError(c, fiber.StatusUnauthorized, models.NewNotLoggedInError())
		}
		c.Locals("user", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// HealthCheck reports whether the storage backend answers.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"
	status := fiber.StatusOK
	if _, _, err := s.store.Get(ctx, repository.KeyAuth); err != nil {
		storageStatus = "unhealthy"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": storageStatus,
		"checks": fiber.Map{
			"storage": fiber.Map{
				"backend": s.config.StorageBackend,
				"status":  storageStatus,
			},
		},
		"session": s.session.AuthState().Status(),
		"time":    time.Now(),
	})
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}
	observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return respondWithError(c, fiber.StatusInternalServerError, err)
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	observability.GlobalLogger.Info("server starting", "port", s.config.Port, "storage", s.config.StorageBackend)
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests, ends open session streams and closes the
// storage backend.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.GlobalLogger.Error("error shutting down HTTP server", "error", err)
		}
	}
	if err := kvstore.Close(s.store); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	observability.GlobalLogger.Info("server shutdown complete")
	return nil
}

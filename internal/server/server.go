// Package server contains the HTTP handlers and route wiring of the API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/github"
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/notifications"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RepoLister fetches the public repositories of a GitHub account.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.Manager
	github         RepoLister
	notifier       *notifications.Notifier
	authService    *service.AuthService
	profileService *service.ProfileService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer connects to the database and Redis and builds a server on them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil Redis client disables caching, rate limiting and feed events.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}
	cache.SetClient(redisClient)

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiry)
	notifier := notifications.NewNotifier(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		tokens:         tokens,
		notifier:       notifier,
		github: github.NewClient(github.Config{
			BaseURL:      cfg.GithubAPIURL,
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubSecret,
			Timeout:      cfg.GithubTimeout,
		}),
	}
	s.authService = service.NewAuthService(userRepo, tokens)
	s.profileService = service.NewProfileService(profileRepo, userRepo)
	s.postService = service.NewPostService(postRepo, userRepo, notifier)
	s.commentService = service.NewCommentService(commentRepo, postRepo, userRepo, notifier)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before ContextMiddleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit, so error responses keep CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.LegacyTokenHeader,
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"msg": "Too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	requireAuth := middleware.AuthRequired(s.tokens)
	api := app.Group("/api")

	api.Post("/users", middleware.RateLimit(s.redis, s.config.Env, 5, 10*time.Minute, "register"), s.Register)

	authGroup := api.Group("/auth")
	authGroup.Get("/", requireAuth, s.CurrentUser)
	authGroup.Post("/", middleware.RateLimit(s.redis, s.config.Env, 10, 5*time.Minute, "login"), s.Login)

	profile := api.Group("/profile")
	profile.Get("/", s.ListProfiles)
	profile.Get("/user/:user_id", s.GetProfileByUser)
	profile.Get("/github/:username", s.GithubRepos)
	profile.Get("/me", requireAuth, s.GetMyProfile)
	profile.Post("/", requireAuth, s.UpsertProfile)
	profile.Delete("/", requireAuth, s.DeleteAccount)
	profile.Put("/experience", requireAuth, s.AddExperience)
	profile.Delete("/experience/:exp_id", requireAuth, s.RemoveExperience)
	profile.Put("/education", requireAuth, s.AddEducation)
	profile.Delete("/education/:edu_id", requireAuth, s.RemoveEducation)

	posts := api.Group("/posts", requireAuth)
	posts.Post("/", s.CreatePost)
	posts.Get("/", s.GetPosts)
	// Specific prefixes before the generic /:id routes.
	posts.Put("/like/:id", s.LikePost)
	posts.Put("/unlike/:id", s.UnlikePost)
	posts.Post("/comment/:id", s.CreateComment)
	posts.Delete("/comment/:id/:comment_id", s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)
}

// LivenessCheck reports that the process is serving.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck pings the database and, when configured, Redis. Redis is
// optional: without it the API runs uncached and unthrottled.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{
		"database": probe(func() error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"redis": "unavailable",
	}
	if s.redis != nil {
		checks["redis"] = probe(func() error { return s.redis.Ping(ctx).Err() })
	}

	status, overall := fiber.StatusOK, "healthy"
	for _, v := range checks {
		if v == "unhealthy" {
			status, overall = fiber.StatusServiceUnavailable, "unhealthy"
		}
	}
	return c.Status(status).JSON(fiber.Map{"status": overall, "checks": checks, "time": time.Now()})
}

func probe(ping func() error) string {
	if ping() != nil {
		return "unhealthy"
	}
	return "healthy"
}

// errorHandler renders errors that escape a handler. Routing errors keep their
// status; anything else is an internal failure.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		if fe.Code == fiber.StatusNotFound {
			return models.RespondWithError(c, fe.Code, models.NewNotFoundError(fe.Message))
		}
		return c.Status(fe.Code).JSON(fiber.Map{"msg": fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "DevConnector API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}
	if readDB := database.GetReadDB(); readDB != nil && readDB != s.db {
		if sqlDB, err := readDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// Package server contains the HTTP handlers for the application's API
// endpoints. Every handler is a thin translation layer: parse request, call
// the cache manager, map the typed outcome to a status code and JSON body.
package server

import (
	"context"
	"log/slog"
	"time"

	"tomosu/internal/cache"
	"tomosu/internal/config"
	"tomosu/internal/middleware"
	"tomosu/internal/models"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds the serving layer's dependencies. The cache manager is the
// only data source; no handler touches the database after startup.
type Server struct {
	config *config.Config
	cache  *cache.Manager
	redis  *redis.Client
	app    *fiber.App
	prom   *fiberprometheus.FiberPrometheus
}

// NewServer creates a server around an already-initialized cache manager.
// The redis client is optional; without it the write path runs unthrottled.
func NewServer(cfg *config.Config, cacheManager *cache.Manager, redisClient *redis.Client) *Server {
	return &Server{
		config: cfg,
		cache:  cacheManager,
		redis:  redisClient,
		prom:   fiberprometheus.New("tomosu-api"),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.prom != nil {
		app.Use(s.prom.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "TOMOSU Backend Metrics Dashboard",
	}))

	// Post routes. The write path requires auth and is rate limited per user.
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.AuthRequired(), middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	// Tag routes
	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Get("/:name/posts", s.GetPostsByTag)

	// User routes
	users := api.Group("/users")
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/bookmarks", s.AuthRequired(), s.GetBookmarks)
	users.Get("/:id", s.GetUserProfile)

	// Survey routes
	surveys := api.Group("/surveys")
	surveys.Get("/", s.GetSurveys)
	surveys.Get("/:id/responses", s.GetSurveyResponses)
	surveys.Get("/:id", s.GetSurvey)

	// System routes
	api.Get("/system/stats", s.GetSystemStats)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports ready only once the cache snapshot is fully loaded.
// Until then every probe answers 503, keeping traffic away from a process
// that would serve partial data.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	status := s.cache.Status()
	if !status.Ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "loading",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      "ready",
		"snapshot_id": status.SnapshotID,
		"records":     status.Records,
		"time":        time.Now(),
	})
}

// handleError translates a cache manager outcome into an HTTP response.
func handleError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "TOMOSU Community API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled error", "error", err, "path", c.Path())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("error closing redis", "error", err)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}

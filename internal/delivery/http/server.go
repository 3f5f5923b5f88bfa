package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/config"
	"github.com/fieldops-microservice/internal/delivery/http/handler"
	"github.com/fieldops-microservice/internal/delivery/http/middleware"
)

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server is the Fiber HTTP server for the field operations API.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	targetHandler  *handler.TargetHandler
	sessionHandler *handler.SessionHandler
	mediaHandler   *handler.MediaHandler

	dbHealth    HealthChecker
	redisHealth HealthChecker
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	targetHandler *handler.TargetHandler,
	sessionHandler *handler.SessionHandler,
	mediaHandler *handler.MediaHandler,
	dbHealth HealthChecker,
	redisHealth HealthChecker,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Field Operations Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    12 << 20, // photo uploads
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		targetHandler:  targetHandler,
		sessionHandler: sessionHandler,
		mediaHandler:   mediaHandler,
		dbHealth:       dbHealth,
		redisHealth:    redisHealth,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Target routes. /nearest is registered before /:id so the literal
	// segment wins.
	api.Get("/targets", s.targetHandler.List)
	api.Get("/targets/nearest", s.targetHandler.Nearest)
	api.Get("/targets/:id", s.targetHandler.GetByID)
	api.Get("/targets/:id/reports", s.sessionHandler.ReportHistory)

	// Report session routes
	api.Post("/sessions", s.sessionHandler.Create)
	api.Get("/sessions/:id", s.sessionHandler.Get)
	api.Delete("/sessions/:id", s.sessionHandler.Cancel)
	api.Post("/sessions/:id/position", s.sessionHandler.RecordPosition)
	api.Post("/sessions/:id/answers", s.sessionHandler.RecordAnswer)
	api.Get("/sessions/:id/report-context", s.sessionHandler.ReportContext)
	api.Post("/sessions/:id/submit", s.sessionHandler.Submit)

	// Media
	api.Post("/photos", s.mediaHandler.Upload)
}

func (s *Server) health(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK

	checks := fiber.Map{}
	if s.dbHealth != nil {
		if err := s.dbHealth.Health(c.Context()); err != nil {
			checks["database"] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	if s.redisHealth != nil {
		if err := s.redisHealth.Health(c.Context()); err != nil {
			checks["redis"] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber instance for handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}

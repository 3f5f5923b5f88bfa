package main

// @title Field Operations Microservice API
// @version 1.0.0
// @description Geofenced field reporting for sanitation operations. Provides APIs for browsing target points, opening report sessions, streaming device positions, answering module questionnaires and submitting geo-verified reports with photo evidence.
// @description
// @description Core capabilities:
// @description - Target point listing, lookup and nearest-target selection
// @description - Push-based position tracking with per-module geofences
// @description - Branching questionnaire validation with ordered requirements
// @description - Fence-gated report submission with proximity tokens
// @description - Photo evidence upload to the media store

// @contact.name API Support
// @contact.email support@fieldops-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/fieldops-microservice/docs/swagger"
	"github.com/fieldops-microservice/internal/config"
	httpDelivery "github.com/fieldops-microservice/internal/delivery/http"
	"github.com/fieldops-microservice/internal/delivery/http/handler"
	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/infrastructure/mediastore"
	"github.com/fieldops-microservice/internal/pkg/logger"
	"github.com/fieldops-microservice/internal/repository/cache"
	"github.com/fieldops-microservice/internal/repository/postgres"
	redisRepo "github.com/fieldops-microservice/internal/repository/redis"
	"github.com/fieldops-microservice/internal/session"
	"github.com/fieldops-microservice/internal/usecase"
	"github.com/fieldops-microservice/internal/worker"
	"github.com/fieldops-microservice/internal/worker/position"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Field Operations Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	targetRepo := postgres.NewTargetRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	mediaRepo := mediastore.NewClient(&cfg.Media, log)

	log.Info("Repositories initialized")

	// 7. Initialize session manager and module profiles
	profiles := domain.NewModuleProfiles(cfg.Fence.DefaultRadius, cfg.Fence.TwinbinRadius)
	proximity := usecase.NewProximityIssuer(cfg.Proximity.Secret, cfg.Proximity.TokenTTL)

	sessionCtx, sessionCancel := context.WithCancel(context.Background())
	defer sessionCancel()

	sessions := session.NewManager(cfg.Session.TTL, log)
	go sessions.Run(sessionCtx)

	// 8. Initialize Use Cases
	targetUC := usecase.NewTargetUseCase(
		targetRepo,
		cacheRepo,
		log,
		cfg.Cache.TargetListTTL,
	)

	reportUC := usecase.NewReportUseCase(
		sessions,
		targetRepo,
		reportRepo,
		cacheRepo,
		streamRepo,
		profiles,
		proximity,
		log,
	)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	targetHandler := handler.NewTargetHandler(targetUC, log)
	sessionHandler := handler.NewSessionHandler(reportUC, log)
	mediaHandler := handler.NewMediaHandler(mediaRepo, log)

	log.Info("HTTP handlers initialized")

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		targetHandler,
		sessionHandler,
		mediaHandler,
		db,
		redisClient,
	)

	log.Info("HTTP server initialized")

	// 11. Optionally run the position worker in-process so stream
	// updates feed the live session trackers.
	var workerManager *worker.WorkerManager
	if cfg.Worker.Enabled {
		positionWorker := position.NewPositionWorker(
			streamRepo,
			sessions,
			cfg.Worker.ConsumerGroup,
			log,
		)

		workerManager = worker.NewWorkerManager(log)
		workerManager.Register(positionWorker)

		if err := workerManager.Start(sessionCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
		log.Info("Position worker started", zap.String("consumer_group", cfg.Worker.ConsumerGroup))
	}

	// 12. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	// Stop session pruning and workers
	sessionCancel()
	if workerManager != nil {
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/proofline/proofline/pkg/validator"

	"github.com/proofline/proofline/internal/adapter/handler"
	"github.com/proofline/proofline/internal/adapter/repository"
	"github.com/proofline/proofline/internal/infrastructure/cache"
	"github.com/proofline/proofline/internal/infrastructure/database"
	httpmw "github.com/proofline/proofline/internal/infrastructure/http/middleware"
	"github.com/proofline/proofline/internal/usecase/correction"
	"github.com/proofline/proofline/internal/usecase/revision"
	"github.com/proofline/proofline/internal/usecase/transcript"
	"github.com/proofline/proofline/internal/usecase/wordlist"
	pkgai "github.com/proofline/proofline/pkg/ai"
	"github.com/proofline/proofline/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying schema migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Job status cache: Redis when reachable, in-memory fallback for
	// single-node development.
	log.Println("📦 Connecting to Redis...")
	var statusCache cache.Store
	redisStore, err := cache.NewRedisStore(&cfg.Redis, cfg.GetRedisAddr(), logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory job status cache", zap.Error(err))
		statusCache = cache.NewMemoryStore()
	} else {
		defer redisStore.Close()
		statusCache = redisStore
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	wordListRepo := repository.NewWordListRepository(db)
	jobRepo := repository.NewCorrectionJobRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)

	// Initialize correction pipeline
	log.Println("🤖 Initializing correction pipeline...")
	openaiClient := pkgai.NewOpenAIClient(&cfg.OpenAI)
	engine := correction.NewEngine(openaiClient, cfg.Engine.MaxAttempts, logger)
	ledger := revision.NewLedger(revisionRepo, logger)
	correctionService := correction.NewService(jobRepo, transcriptRepo, wordListRepo, userRepo, ledger, engine, statusCache, cfg, logger)

	// Initialize services
	transcriptService := transcript.NewService(transcriptRepo, ledger, logger)
	wordListService := wordlist.NewService(wordListRepo, jobRepo, logger)

	// Jobs left in processing by a previous run are unrecoverable: the
	// pipeline runs in-process, so a dead process means a dead job.
	swept, err := correctionService.SweepInterrupted(context.Background())
	if err != nil {
		log.Fatalf("Failed to sweep interrupted jobs: %v", err)
	}
	if swept > 0 {
		log.Printf("🧹 Marked %d interrupted job(s) as failed", swept)
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	transcriptHandler := handler.NewTranscriptHandler(transcriptService, correctionService, logger)
	wordListHandler := handler.NewWordListHandler(wordListService, logger)
	correctionHandler := handler.NewCorrectionHandler(correctionService, cfg.Engine.DefaultModel, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	authMW := httpmw.NewAuthMiddleware(userRepo)
	router := handler.NewRouter(cfg, authMW, transcriptHandler, wordListHandler, correctionHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

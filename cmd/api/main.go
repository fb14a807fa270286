package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/magicscuts/docs"
	pkgvalidator "github.com/johnquangdev/magicscuts/pkg/validator"

	"github.com/johnquangdev/magicscuts/internal/adapter/handler"
	"github.com/johnquangdev/magicscuts/internal/adapter/repository"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/cache"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/database"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/external/assemblyai"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/external/llm"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/media"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/storage"
	"github.com/johnquangdev/magicscuts/internal/usecase/project"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/jwt"
)

// @title           Magicscuts API
// @version         1.0
// @description     Turns long-form videos into ten ranked vertical shorts.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("http.request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying sql-migrate migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run `admin migrate up` to manage the schema")
	}

	// Project cache: Redis when enabled, process memory otherwise
	var projectCache cache.Store
	checks := map[string]handler.HealthChecker{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		redisStore := cache.NewRedisStore(redisClient)
		defer redisStore.Close()
		projectCache = redisStore
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		memoryStore := cache.NewMemoryStore(cfg.Redis.CacheTTL)
		defer memoryStore.Close()
		projectCache = memoryStore
	}

	// Initialize object storage
	log.Println("🪣 Connecting to object storage...")
	mediaStore, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	checks["storage"] = mediaStore.Ping

	// Initialize engines
	log.Println("🤖 Initializing transcription and selection engines...")
	transcriber := assemblyai.NewTranscriber(cfg.AssemblyAI.APIKey, cfg.AssemblyAI.SpeechModel, logger)
	selector := llm.NewSelector(llm.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}, logger)
	cutter := media.NewFFmpegCutter(cfg.Media.FFmpegPath, cfg.Media.FFprobePath, logger)

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize project service
	log.Println("🎬 Initializing project service...")
	pipeline := project.NewPipeline(projectRepo, userRepo, mediaStore, transcriber, selector, cutter, cfg, logger)
	projectService := project.NewProjectService(pipeline, projectRepo, userRepo, projectCache, cfg, logger)

	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, projectService, checks, logger)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	// In-flight pipeline runs share the shutdown deadline
	if err := projectService.Wait(ctx); err != nil {
		logger.Warn("Pipeline runs still in flight at shutdown", zap.Error(err))
	}

	log.Println("✅ Server stopped gracefully")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
	itemUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/item"
	transactionUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/transaction"
	userUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/user"

	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/notifier"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/scheduler"
	timeProvider "github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(parseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	// Setup database configuration
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      int(cfg.Database.RetryDelay.Seconds()),
	}
	if err := dbConfig.Validate(); err != nil {
		appLogger.Error("Invalid database configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Optional Redis: availability cache and notification channel
	var availabilityCache persistence.AvailabilityCache
	var emitter notification.Emitter = notifier.NewLogEmitter(appLogger)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		availabilityCache = cache.NewRedisAvailabilityCache(rdb, cfg.Redis.CacheTTL, appLogger)
		emitter = notifier.NewRedisEmitter(rdb, cfg.Redis.NotificationChannel)
		appLogger.Info("Redis enabled", map[string]any{"addr": cfg.Redis.Addr})
	} else {
		appLogger.Info("Redis not configured, using live availability queries and log notifications", nil)
	}

	// Initialize repositories and unit of work
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), appLogger)
	itemRepo := repository.NewItemRepository(dbManager.DB(), appLogger)
	userRepo := repository.NewUserRepository(dbManager.DB(), appLogger)
	uow := database.NewUnitOfWork(dbManager.DB(), appLogger)

	// Initialize use cases
	transactionService := transactionUseCase.NewService(
		uow,
		transactionRepo,
		itemRepo,
		userRepo,
		availabilityCache,
		emitter,
		tp,
		appLogger,
	)
	defer transactionService.Shutdown()

	itemService := itemUseCase.NewItemUseCase(itemRepo, transactionRepo, availabilityCache, tp, appLogger)
	userService := userUseCase.NewUserUseCase(userRepo, tp, appLogger)

	// Periodic overdue sweep
	sched, err := scheduler.NewScheduler(transactionService, cfg.Scheduler.OverdueSweepSpec, cfg.Scheduler.SweepTimeout, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize scheduler", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize API handlers
	transactionHandler := handler.NewTransactionHandler(transactionService, tp, appLogger)
	itemHandler := handler.NewItemHandler(itemService, appLogger)
	userHandler := handler.NewUserHandler(userService, appLogger)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.CORSOrigins)
	routes.SetupRoutes(router, transactionHandler, itemHandler, userHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// parseLogLevel maps the configured level name to a log level
func parseLogLevel(level string) core.LogLevel {
	switch level {
	case "debug":
		return core.LogLevelDebug
	case "warn":
		return core.LogLevelWarn
	case "error":
		return core.LogLevelError
	default:
		return core.LogLevelInfo
	}
}

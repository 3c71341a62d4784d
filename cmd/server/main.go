// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLog "gorm.io/gorm/logger"

	"kvstore/internal/config"
	"kvstore/internal/domain"
	"kvstore/internal/handler"
	"kvstore/internal/service"
	pgStore "kvstore/internal/storage/postgres"
	redisStore "kvstore/internal/storage/redis"
	customLogger "kvstore/pkg/logger"
)

// gormWriter wraps our custom logger to implement gorm's logger.Writer interface
type gormWriter struct {
	logger *customLogger.Logger
}

// Printf implements the logger.Writer interface
func (w *gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

func main() {
	// Simple health check for Docker - just make HTTP request to existing server
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		resp, err := http.Get("http://localhost:8082/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load environment variables from .env file (development only)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize structured logger
	appLogger := customLogger.NewLogger()
	appLogger.Info("Starting KV Store Service")
	defer appLogger.Sync()

	// Load application configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize the storage backend
	store, closeStore, err := initStorage(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
	}

	// Initialize service layer with dependency injection
	documentService := service.NewDocumentService(store, cfg, appLogger)

	// Initialize HTTP handler
	documentHandler := handler.NewDocumentHandler(documentService, appLogger)

	// Setup HTTP router with middleware
	router := setupRouter(documentHandler, cfg, appLogger)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		appLogger.Info("Server starting", "port", cfg.ServerPort, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	// Release the storage backend
	if closeStore != nil {
		if err := closeStore(); err != nil {
			appLogger.Error("Error closing storage backend", "error", err)
		}
	}

	appLogger.Info("Server exited successfully")
}

// initStorage builds the configured storage backend as a typed document store
func initStorage(cfg *config.Config, log *customLogger.Logger) (service.DocumentStore, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := initDatabase(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		pg, err := pgStore.New(db, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return pgStore.NewTable[domain.DocumentKey, json.RawMessage](pg), closeFn, nil

	default:
		rdb, err := redisStore.New(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}

		// Reachability is deferred to first use; a failed ping here is only
		// worth a warning
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("Redis not reachable yet, operations will fail until it is", "error", err)
		}

		return redisStore.NewTable[domain.DocumentKey, json.RawMessage](rdb), rdb.Close, nil
	}
}

// initDatabase initializes the PostgreSQL database connection with connection pooling
func initDatabase(cfg *config.Config, log *customLogger.Logger) (*gorm.DB, error) {
	writer := &gormWriter{logger: log}

	gormLogger := gormLog.New(
		writer, // Use our custom writer
		gormLog.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLog.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	// Connect to PostgreSQL with retry logic
	var db *gorm.DB
	var err error

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)

		db, err = gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
			Logger:                 gormLogger,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		})

		if err == nil {
			break
		}

		log.Warn("Failed to connect to database, retrying...", "attempt", i+1, "error", err)
		time.Sleep(5 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	// Get underlying SQL DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool for optimal performance
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully")
	return db, nil
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(documentHandler *handler.DocumentHandler, cfg *config.Config, log *customLogger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply global middleware
	router.Use(gin.Recovery()) // Panic recovery
	router.Use(handler.LoggerMiddleware(log))
	router.Use(handler.CORSMiddleware(cfg))
	router.Use(handler.SecurityHeadersMiddleware())
	router.Use(handler.RateLimitMiddleware(cfg.RateLimitPerMinute))
	router.Use(handler.TimeoutMiddleware(10 * time.Second))

	// Health check endpoint (no authentication required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, domain.HealthResponse{
			Status:  "healthy",
			Service: "kvstore",
			Backend: cfg.StorageBackend,
			Version: "1.0.0",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(handler.AuthMiddleware(cfg))
	{
		v1.POST("/collections/:collection", documentHandler.CreateDocument)
		v1.PUT("/collections/:collection/keys/:key", documentHandler.PutDocument)
		v1.GET("/collections/:collection/keys/:key", documentHandler.GetDocument)
		v1.DELETE("/collections/:collection/keys/:key", documentHandler.DeleteDocument)
		v1.GET("/collections/:collection/keys/:key/exists", documentHandler.DocumentExists)
		v1.GET("/collections/:collection/keys/:key/ttl", documentHandler.DocumentTTL)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
		})
	})

	return router
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filingkart/filingkart/internal/api"
	"github.com/filingkart/filingkart/internal/application"
	"github.com/filingkart/filingkart/internal/catalog"
	"github.com/filingkart/filingkart/internal/config"
	"github.com/filingkart/filingkart/internal/database"
	"github.com/filingkart/filingkart/internal/jobs"
	"github.com/filingkart/filingkart/internal/middleware"
	"github.com/filingkart/filingkart/internal/session"
	"github.com/filingkart/filingkart/internal/uploads"
	"github.com/filingkart/filingkart/internal/wizard"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"storage_type", cfg.Storage.Type,
		"server_port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize document storage
	storage, err := uploads.NewStorageFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	uploadService := uploads.NewUploadService(storage)

	// Session gate and wizard collaborators
	extractor := session.NewTokenExtractor(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	provider := session.NewProvider(db, extractor)
	applications := application.NewService(db)
	jobBoard := jobs.NewService(db)
	sessions := wizard.NewRegistry(provider, cfg.Wizard.SessionTTL)
	serviceCatalog := catalog.Default()

	// Sweep idle wizard drafts in the background
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Wizard.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessions.Sweep()
			case <-sweepDone:
				return
			}
		}
	}()

	// Set up HTTP routes
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(session.Middleware())

	apiGroup := router.Group("/api")

	wizardHandler := api.NewHandler(
		serviceCatalog,
		sessions,
		provider,
		uploads.NewWizardUploader(uploadService),
		applications,
		cfg.Wizard.UploadTimeout,
	)
	wizardHandler.RegisterRoutes(apiGroup)

	application.NewHandler(applications, provider).RegisterRoutes(apiGroup, provider)
	jobs.NewHandler(jobBoard).RegisterRoutes(apiGroup, provider)

	uploadHandler := uploads.NewHTTPHandler(uploadService)
	apiGroup.POST("/uploads", session.RequireUser(provider), uploadHandler.Upload)
	apiGroup.GET("/uploads/*key", uploadHandler.Download)

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.HealthCheck(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	close(sweepDone)

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}

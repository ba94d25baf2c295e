package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Mehmet-hhs/factuurvergelijker/config"
	"github.com/Mehmet-hhs/factuurvergelijker/handler"
	"github.com/Mehmet-hhs/factuurvergelijker/middleware"
	"github.com/Mehmet-hhs/factuurvergelijker/pkg/logger"
	"github.com/Mehmet-hhs/factuurvergelijker/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	storage, err := service.NewMinioStorage(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize report storage", "error", err)
		os.Exit(1)
	}

	// Ensure bucket exists
	if err := storage.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure report bucket", "error", err)
		os.Exit(1)
	}

	// An empty database path disables the audit trail.
	audit, err := service.OpenAuditLog(cfg.Audit.DatabasePath)
	if err != nil {
		slog.Error("failed to open audit log", "error", err)
		os.Exit(1)
	}
	if audit != nil {
		defer audit.Close()
	}

	// Initialize run store with config
	service.InitRunStore(&cfg.Store)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	reconcileHandler := handler.NewReconcileHandler(cfg, storage, audit)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(cors.New(corsConfig()))                 // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/reconciliations", reconcileHandler.Create)
		protected.GET("/reconciliations", reconcileHandler.List)
		protected.GET("/reconciliations/:id", reconcileHandler.Get)
		protected.GET("/reconciliations/:id/status", reconcileHandler.GetStatus)
		protected.GET("/reconciliations/:id/report", reconcileHandler.GetReport)
		protected.DELETE("/reconciliations/:id", reconcileHandler.Delete)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID"}
	return c
}

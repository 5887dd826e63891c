package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/handlers"
	"upload-relay-api/pkg/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize dependencies
	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize container: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	handlers.SetupMiddleware(router, cfg)
	handlers.SetupRoutes(router, &handlers.RouterConfig{
		UploadService: container.UploadService,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"provider": cfg.Upload.Provider,
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

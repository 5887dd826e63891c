package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/middleware"
	"upload-relay-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	UploadService services.UploadService
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, routerConfig *RouterConfig) {
	uploadHandler := NewUploadHandler(routerConfig.UploadService)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "upload-relay-api",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		uploads := v1.Group("/uploads")
		{
			uploads.POST("", uploadHandler.RelayUpload)
		}
	}

	// Anything routed but not POST/OPTIONS gets the fixed envelope
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *config.Config) {
	// Request ID
	router.Use(middleware.RequestID())

	// CORS (answers preflight requests)
	router.Use(middleware.CORS())

	// Request size limit
	maxBytes := cfg.Upload.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 20 * 1024 * 1024
	}
	router.Use(middleware.RequestSizeLimit(maxBytes))

	// Rate limiting (100 requests per second, burst of 200)
	router.Use(middleware.RateLimiter(100, 200))

	// Structured logging
	router.Use(middleware.StructuredLogger())

	// Centralized error handling
	router.Use(middleware.ErrorHandler())
}

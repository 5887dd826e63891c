package server

import (
	"context"
	"fmt"
	"strings"

	"upload-relay-api/internal/cloudinary"
	"upload-relay-api/internal/config"
	"upload-relay-api/internal/services"
	"upload-relay-api/internal/shopify"
	"upload-relay-api/internal/storage"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	UploadService services.UploadService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	target, err := newUploadTarget(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload target: %w", err)
	}

	return &Container{
		Config:        cfg,
		UploadService: services.NewUploadService(target, &cfg.Upload),
	}, nil
}

// newUploadTarget builds the relay target named by the configuration
func newUploadTarget(cfg *config.Config) (services.UploadTarget, error) {
	switch strings.ToLower(cfg.Upload.Provider) {
	case "", "shopify":
		return shopify.NewTarget(&cfg.Shopify), nil
	case "cloudinary":
		return cloudinary.NewTarget(&cfg.Cloudinary), nil
	case "s3":
		return storage.NewS3Target(context.Background(), &cfg.S3)
	default:
		return nil, fmt.Errorf("unknown upload provider %q", cfg.Upload.Provider)
	}
}

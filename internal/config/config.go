package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Upload      UploadConfig
	Shopify     ShopifyConfig
	Cloudinary  CloudinaryConfig
	S3          S3Config
}

// UploadConfig holds upload relay configuration
type UploadConfig struct {
	Provider   string // "shopify", "cloudinary" or "s3"
	MaxBytes   int64
	ScratchDir string
}

// ShopifyConfig holds Shopify Admin API credentials
type ShopifyConfig struct {
	StoreDomain string
	AdminToken  string
	APIVersion  string
}

// CloudinaryConfig holds Cloudinary upload credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// S3Config holds S3 relay target configuration
type S3Config struct {
	Bucket    string
	Region    string
	KeyPrefix string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("UPLOAD_PROVIDER", "shopify")
	viper.SetDefault("MAX_UPLOAD_BYTES", 20*1024*1024)
	viper.SetDefault("SCRATCH_DIR", os.TempDir())
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-07")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_KEY_PREFIX", "uploads/")

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Upload: UploadConfig{
			Provider:   viper.GetString("UPLOAD_PROVIDER"),
			MaxBytes:   viper.GetInt64("MAX_UPLOAD_BYTES"),
			ScratchDir: viper.GetString("SCRATCH_DIR"),
		},
		Shopify: ShopifyConfig{
			StoreDomain: viper.GetString("SHOPIFY_STORE_DOMAIN"),
			AdminToken:  viper.GetString("SHOPIFY_ADMIN_TOKEN"),
			APIVersion:  viper.GetString("SHOPIFY_API_VERSION"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
		},
		S3: S3Config{
			Bucket:    viper.GetString("S3_BUCKET"),
			Region:    viper.GetString("S3_REGION"),
			KeyPrefix: viper.GetString("S3_KEY_PREFIX"),
		},
	}

	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

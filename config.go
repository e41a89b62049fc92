package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"product-admin/clients"
	awspkg "product-admin/pkg/aws"

	"github.com/joho/godotenv"
)

// Config holds all environment variables for the product console.
type Config struct {
	Port               string
	AppEnv             string
	ProductAPIURL      string
	ProductAPITimeout  time.Duration
	PlaceholderImage   string
	ImageStoreDriver   string
	RedisURL           string
	DynamoImagesTable  string
	MaxImageBytes      int64
	FlashSecret        string
	CloudWatchEnabled  bool
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// secretGetter is the Secrets Manager read used by LoadConfig.
type secretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

const flashSecretName = "product-admin/FLASH_SECRET"

// LoadConfig reads .env (if present) and the environment. With
// AWS_USE_SECRETS=true the flash secret is read from Secrets Manager,
// falling back to the env var on failure.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var secrets secretGetter
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(ctx); err == nil {
			secrets = awspkg.NewSecretsClient(awsCfg)
		}
	}
	return loadConfig(ctx, secrets)
}

func loadConfig(ctx context.Context, secrets secretGetter) (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		ProductAPIURL:     getEnv("PRODUCT_API_URL", "https://fakestoreapi.com"),
		PlaceholderImage:  getEnv("PLACEHOLDER_IMAGE_URL", clients.DefaultPlaceholderImage),
		ImageStoreDriver:  strings.ToLower(getEnv("IMAGE_STORE_DRIVER", "memory")),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DynamoImagesTable: getEnv("DDB_TABLE_IMAGES", "ProductImages"),
		FlashSecret:       os.Getenv("FLASH_SECRET"),
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS entries need an http(s) scheme, got %q", origin)
		}
		cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	timeout, err := time.ParseDuration(getEnv("PRODUCT_API_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("PRODUCT_API_TIMEOUT must be a positive duration")
	}
	cfg.ProductAPITimeout = timeout

	maxBytes, err := strconv.ParseInt(getEnv("MAX_IMAGE_BYTES", "5242880"), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be a positive integer")
	}
	cfg.MaxImageBytes = maxBytes

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil || perMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a positive integer")
	}
	cfg.RateLimitPerMinute = perMinute

	switch cfg.ImageStoreDriver {
	case "memory", "redis", "dynamodb":
	default:
		return nil, fmt.Errorf("IMAGE_STORE_DRIVER must be memory, redis or dynamodb, got %q", cfg.ImageStoreDriver)
	}

	if secrets != nil {
		if v, err := secrets.GetSecret(ctx, flashSecretName); err == nil && v != "" {
			cfg.FlashSecret = v
		}
	}

	if cfg.FlashSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("FLASH_SECRET is required")
		}
		cfg.FlashSecret = "dev-only-flash-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

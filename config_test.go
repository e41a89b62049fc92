package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSecrets struct {
	values map[string]string
	err    error
}

func (s stubSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[name], nil
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "APP_ENV", "PRODUCT_API_URL", "PRODUCT_API_TIMEOUT", "PLACEHOLDER_IMAGE_URL",
		"IMAGE_STORE_DRIVER", "REDIS_URL", "DDB_TABLE_IMAGES", "MAX_IMAGE_BYTES",
		"FLASH_SECRET", "CLOUDWATCH_ENABLED", "RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "https://fakestoreapi.com", cfg.ProductAPIURL)
	assert.Equal(t, 15*time.Second, cfg.ProductAPITimeout)
	assert.Equal(t, "https://via.placeholder.com/300", cfg.PlaceholderImage)
	assert.Equal(t, "memory", cfg.ImageStoreDriver)
	assert.Equal(t, "ProductImages", cfg.DynamoImagesTable)
	assert.Equal(t, int64(5242880), cfg.MaxImageBytes)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.False(t, cfg.CloudWatchEnabled)
	assert.NotEmpty(t, cfg.FlashSecret)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PRODUCT_API_TIMEOUT", "3s")
	t.Setenv("IMAGE_STORE_DRIVER", "Redis")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("CLOUDWATCH_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := loadConfig(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ProductAPITimeout)
	assert.Equal(t, "redis", cfg.ImageStoreDriver)
	assert.Equal(t, int64(1024), cfg.MaxImageBytes)
	assert.True(t, cfg.CloudWatchEnabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "http"},
		{"PRODUCT_API_TIMEOUT", "soon"},
		{"PRODUCT_API_TIMEOUT", "-1s"},
		{"IMAGE_STORE_DRIVER", "s3"},
		{"MAX_IMAGE_BYTES", "0"},
		{"RATE_LIMIT_PER_MINUTE", "many"},
		{"CORS_ALLOWED_ORIGINS", "admin.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig(context.Background(), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ProductionNeedsFlashSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := loadConfig(context.Background(), nil)
	assert.EqualError(t, err, "FLASH_SECRET is required")

	cfg, err := loadConfig(context.Background(), stubSecrets{values: map[string]string{flashSecretName: "from-secrets"}})
	require.NoError(t, err)
	assert.Equal(t, "from-secrets", cfg.FlashSecret)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_SecretsFailureFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLASH_SECRET", "from-env")

	cfg, err := loadConfig(context.Background(), stubSecrets{err: errors.New("access denied")})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.FlashSecret)
}

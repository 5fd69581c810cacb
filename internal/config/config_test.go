package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "STORE_DRIVER", "RECORDS_PATH", "GOAL_PATH",
		"STORAGE_DRIVER", "UPLOAD_DIR", "JWT_SECRET", "APP_TIMEZONE",
		"SUBMIT_RATE_LIMIT", "SUBMIT_BURST", "API_ALLOWED_ORIGINS",
		"TRUST_PROXY_HEADERS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, StoreDriverCSV, cfg.StoreDriver)
	assert.Equal(t, "leaderboard.csv", cfg.RecordsPath)
	assert.Equal(t, "daily_goal.txt", cfg.GoalPath)
	assert.Equal(t, StorageDriverLocal, cfg.StorageDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 0.5, cfg.SubmitRateLimit)
	assert.Equal(t, 10, cfg.SubmitBurst)
	assert.Equal(t, "*", cfg.APIAllowedOrigins)
	assert.Equal(t, time.Local, cfg.Location)
	assert.NotEmpty(t, cfg.JWTSecret, "a random secret is generated when none is configured")
	assert.False(t, cfg.UsesDatabase())
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("APP_TIMEZONE", "Europe/Berlin")
	t.Setenv("SUBMIT_BURST", "3")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := Load()

	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, 3, cfg.SubmitBurst)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.True(t, cfg.Sanitized().TrustProxyHeaders)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUBMIT_BURST", "many")
	t.Setenv("SUBMIT_RATE_LIMIT", "fast")
	t.Setenv("JWT_EXPIRY", "forever")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	t.Setenv("TRUST_PROXY_HEADERS", "sometimes")

	cfg := Load()

	assert.Equal(t, 10, cfg.SubmitBurst)
	assert.Equal(t, 0.5, cfg.SubmitRateLimit)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:          "Stepboard",
		JWTSecret:        "secret",
		AdminCredentials: "admin:hash",
		S3SecretKey:      "key",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Stepboard", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.AdminCredentials)
	assert.Empty(t, safe.S3SecretKey)
}

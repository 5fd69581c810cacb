package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverCSV    = "csv"
	StoreDriverSQLite = "sqlite"
	StoreDriverPgx    = "pgx"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	Port        string
	ContentPath string
	Timezone    string
	Location    *time.Location

	// Record + goal store (csv keeps the flat files, sqlite/pgx use the database)
	StoreDriver  string
	RecordsPath  string
	GoalPath     string
	DBConnection string

	// Proof images
	StorageDriver string
	UploadDir     string

	// Admin
	AdminCredentials string // "user:bcrypt-hash,user2:bcrypt-hash"
	JWTSecret        string
	JWTExpiry        time.Duration

	// JSON API
	APIAllowedOrigins string // comma separated, "*" for any

	// Submissions per client IP
	SubmitRateLimit float64
	SubmitBurst     int

	// Read client IPs from X-Forwarded-For / X-Real-IP. Only enable behind a
	// reverse proxy that overwrites these headers.
	TrustProxyHeaders bool

	// Observability (optional)
	SentryDSN   string
	MetricsUser string
	MetricsPass string

	// Storage (S3-compatible, only read when STORAGE_DRIVER=s3)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Stepboard"),
		AppEnv:      envString("APP_ENV", "development"),
		AppURL:      envString("APP_URL", "http://localhost:8090"),
		Port:        envString("PORT", "8090"),
		ContentPath: envString("CONTENT_PATH", "content"),
		Timezone:    envString("APP_TIMEZONE", "Local"),

		// Stores
		StoreDriver:  envString("STORE_DRIVER", StoreDriverCSV),
		RecordsPath:  envString("RECORDS_PATH", "leaderboard.csv"),
		GoalPath:     envString("GOAL_PATH", "daily_goal.txt"),
		DBConnection: envString("DB_CONNECTION", "./data/stepboard.db?_pragma=journal_mode(WAL)"),

		// Proof images
		StorageDriver: envString("STORAGE_DRIVER", StorageDriverLocal),
		UploadDir:     envString("UPLOAD_DIR", "uploads"),

		// Admin
		AdminCredentials: envString("ADMIN_CREDENTIALS", ""),
		JWTSecret:        envString("JWT_SECRET", ""),
		JWTExpiry:        envDuration("JWT_EXPIRY", 12*time.Hour),

		// JSON API
		APIAllowedOrigins: envString("API_ALLOWED_ORIGINS", "*"),

		// Rate limiting
		SubmitRateLimit: envFloat("SUBMIT_RATE_LIMIT", 0.5), // tokens per second
		SubmitBurst:     envInt("SUBMIT_BURST", 10),

		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		// Observability
		SentryDSN:   envString("SENTRY_DSN", ""),
		MetricsUser: envString("METRICS_USER", ""),
		MetricsPass: envString("METRICS_PASS", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", "stepboard"),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	cfg.Location = loadLocation(cfg.Timezone)

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		slog.Warn("JWT_SECRET not set, admin sessions will not survive restarts")
	}

	return cfg
}

// validateProduction ensures the admin panel cannot be left open or unsigned in production.
func validateProduction(cfg *Config) {
	if cfg.JWTSecret == "" {
		slog.Error("production deployment requires JWT_SECRET")
		os.Exit(1)
	}
	if cfg.AdminCredentials == "" {
		slog.Error("production deployment requires ADMIN_CREDENTIALS",
			"hint", "generate a hash with: stepctl hash-password")
		os.Exit(1)
	}
}

func loadLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("config invalid timezone, using local", "key", "APP_TIMEZONE", "value", name)
		return time.Local
	}
	return loc
}

func randomSecret() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate jwt secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesDatabase reports whether records and the goal live in SQL instead of flat files.
func (c *Config) UsesDatabase() bool {
	return c.StoreDriver == StoreDriverSQLite || c.StoreDriver == StoreDriverPgx
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:  c.AppName,
		AppEnv:   c.AppEnv,
		AppURL:   c.AppURL,
		Port:     c.Port,
		Timezone: c.Timezone,
		Location: c.Location,

		StorageDriver: c.StorageDriver,
		S3Endpoint:    c.S3Endpoint,

		TrustProxyHeaders: c.TrustProxyHeaders,
	}
}

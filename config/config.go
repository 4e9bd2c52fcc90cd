package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/camden-git/mediashare/logging"
)

const (
	defaultPort               = "8080"
	defaultDatabasePath       = "mediashare.db"
	defaultJWTExpirationHours = 24
	defaultStoreTimeoutMS     = 5000
	defaultPhotoAPIBaseURL    = "https://api.pexels.com/v1"
	defaultPhotoAPITimeoutSec = 10
	defaultPhotoAPIMaxRetries = 3
	defaultPhotoAPIRatePerSec = 5
	defaultRateLimitRequests  = 60
	defaultRateLimitWindowSec = 60
	defaultCommentPageSize    = 50
)

type Config struct {
	Port         string
	DatabasePath string

	// session tokens
	JWTSecret          string
	JWTExpirationHours int

	// upper bound for every store call
	StoreTimeout time.Duration

	// third-party photo API
	PhotoAPIBaseURL    string
	PhotoAPIKey        string
	PhotoAPITimeout    time.Duration
	PhotoAPIMaxRetries int
	PhotoAPIRatePerSec int

	CORSAllowedOrigins []string

	// inbound limit applied to mutating routes
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CommentPageSize int

	LogLevel  string
	LogFormat string

	// first admin, created on startup when no admin exists
	AdminUsername string
	AdminPassword string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		logging.Warn().Str("var", envVar).Str("value", valStr).Int("default", defaultVal).Err(err).Msg("invalid integer in environment, using default")
		return defaultVal
	}
	return val
}

func getEnvListOrDefault(envVar string, defaultVal []string) []string {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               getEnvOrDefault("PORT", defaultPort),
		DatabasePath:       getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpirationHours: getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		StoreTimeout:       time.Duration(getEnvIntOrDefault("STORE_TIMEOUT_MS", defaultStoreTimeoutMS)) * time.Millisecond,
		PhotoAPIBaseURL:    strings.TrimRight(getEnvOrDefault("PHOTO_API_BASE_URL", defaultPhotoAPIBaseURL), "/"),
		PhotoAPIKey:        os.Getenv("PHOTO_API_KEY"),
		PhotoAPITimeout:    time.Duration(getEnvIntOrDefault("PHOTO_API_TIMEOUT_SECONDS", defaultPhotoAPITimeoutSec)) * time.Second,
		PhotoAPIMaxRetries: getEnvIntOrDefault("PHOTO_API_MAX_RETRIES", defaultPhotoAPIMaxRetries),
		PhotoAPIRatePerSec: getEnvIntOrDefault("PHOTO_API_RATE_PER_SECOND", defaultPhotoAPIRatePerSec),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRequests:  getEnvIntOrDefault("RATE_LIMIT_REQUESTS", defaultRateLimitRequests),
		RateLimitWindow:    time.Duration(getEnvIntOrDefault("RATE_LIMIT_WINDOW_SECONDS", defaultRateLimitWindowSec)) * time.Second,
		CommentPageSize:    getEnvIntOrDefault("COMMENT_PAGE_SIZE", defaultCommentPageSize),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvOrDefault("LOG_FORMAT", "json"),
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if len(cfg.JWTSecret) < 16 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 16 characters, got %d", len(cfg.JWTSecret))
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	StorageLocal = "local"
	StorageR2    = "r2"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	ServerPort     int

	SessionSecret string
	SessionStore  string
	SessionTTL    time.Duration
	RedisURL      string
	SecureCookies bool

	StorageBackend    string
	UploadDir         string
	ImageDir          string
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	CORSAllowedOrigins []string
	LogLevel           string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DatabaseDriver:    get("DATABASE_DRIVER", "postgres"),
		DatabaseURL:       get("DATABASE_URL", ""),
		SessionSecret:     get("SESSION_SECRET", ""),
		SessionStore:      get("SESSION_STORE", StoreMemory),
		RedisURL:          get("REDIS_URL", ""),
		StorageBackend:    get("STORAGE_BACKEND", StorageLocal),
		UploadDir:         get("UPLOAD_DIR", "static/uploads"),
		ImageDir:          get("IMAGE_DIR", "images"),
		R2AccountID:       get("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: get("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      get("R2_BUCKET_NAME", ""),
		R2PublicBaseURL:   get("R2_PUBLIC_BASE_URL", ""),
		LogLevel:          strings.ToLower(get("LOG_LEVEL", "info")),
	}

	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return nil, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	ttl, err := time.ParseDuration(get("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL environment variable: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.SessionTTL = ttl

	secure, err := strconv.ParseBool(get("SECURE_COOKIES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SECURE_COOKIES environment variable: %w", err)
	}
	cfg.SecureCookies = secure

	switch cfg.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("SESSION_STORE must be memory or redis, got %q", cfg.SessionStore)
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageR2:
		missing := []string{}
		for key, v := range map[string]string{
			"R2_ACCOUNT_ID":        cfg.R2AccountID,
			"R2_ACCESS_KEY_ID":     cfg.R2AccessKeyID,
			"R2_SECRET_ACCESS_KEY": cfg.R2SecretAccessKey,
			"R2_BUCKET_NAME":       cfg.R2BucketName,
			"R2_PUBLIC_BASE_URL":   cfg.R2PublicBaseURL,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, fmt.Errorf("STORAGE_BACKEND=r2 requires %d more variable(s): %s", len(missing), strings.Join(missing, ", "))
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be local or r2, got %q", cfg.StorageBackend)
	}

	for _, origin := range strings.Split(get("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig aggregates everything the server needs at startup.
type AppConfig struct {
	ListenAddr           string
	Port                 string
	GinMode              string
	DatabaseDriver       string
	DatabaseDSN          string
	JWTSecret            string
	JWTRefreshSecret     string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	StorageBucket        string
	StoragePublicBaseURL string
	MaxUploadBytes       int64
	CORSAllowOrigins     []string
	LoginRatePerMinute   float64
	LoginBurst           int
	BootstrapAdminEmail  string
	BootstrapAdminPass   string
	BootstrapAdminName   string
}

// DefaultMaxUploadBytes caps gallery uploads at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// Load reads configuration from the environment, filling safe defaults for
// anything not set. A .env file in the working directory is honoured when
// present.
func Load() AppConfig {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite"))
	dsn := getEnv("DATABASE_DSN", "")
	if dsn == "" && driver == "sqlite" {
		dsn = "maisoncms.db"
	}

	return AppConfig{
		ListenAddr:           listenAddr,
		Port:                 port,
		GinMode:              getEnv("GIN_MODE", "release"),
		DatabaseDriver:       driver,
		DatabaseDSN:          dsn,
		JWTSecret:            getEnv("JWT_SECRET", "maisoncms-dev-secret"),
		JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", "maisoncms-dev-refresh"),
		AccessTokenTTL:       getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:      getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		StorageBucket:        getEnv("GCS_BUCKET", "gallery-images"),
		StoragePublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		MaxUploadBytes:       getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		CORSAllowOrigins:     splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		LoginRatePerMinute:   getFloat("LOGIN_RATE_PER_MINUTE", 5),
		LoginBurst:           int(getInt64("LOGIN_BURST", 5)),
		BootstrapAdminEmail:  getEnv("ADMIN_EMAIL", ""),
		BootstrapAdminPass:   getEnv("ADMIN_PASSWORD", ""),
		BootstrapAdminName:   getEnv("ADMIN_NAME", "Administrator"),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

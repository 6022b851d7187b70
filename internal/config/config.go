package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL   string
	RedisURL      string
	StorageDriver string
	ServerAddr    string
	MigrationsDir string

	CasinoRegistryPath string
	LogsChannelID      string
	StaffChannelID     string
	CodeValidityWindow time.Duration
	LogSearchLimit     int

	GatewayURL        string
	GatewayToken      string
	GatewayRatePerSec float64

	AdminTokenHash string

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "ticket_hub")
		pass := getenv("POSTGRES_PASSWORD", "ticket_hub_pass")
		db := getenv("POSTGRES_DB", "ticket_hub")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	cfg := &Config{
		DatabaseURL:        dsn,
		RedisURL:           os.Getenv("REDIS_URL"),
		StorageDriver:      getenv("STORAGE_DRIVER", StoragePostgres),
		ServerAddr:         getenv("SERVER_ADDR", "0.0.0.0:8080"),
		MigrationsDir:      os.Getenv("MIGRATIONS_DIR"),
		CasinoRegistryPath: getenv("CASINO_REGISTRY_PATH", "configs/casinos.yaml"),
		LogsChannelID:      os.Getenv("LOGS_CHANNEL_ID"),
		StaffChannelID:     os.Getenv("STAFF_CHANNEL_ID"),
		CodeValidityWindow: parseDuration(os.Getenv("CODE_VALIDITY_WINDOW"), 48*time.Hour),
		LogSearchLimit:     parseInt(os.Getenv("LOG_SEARCH_LIMIT"), 100),
		GatewayURL:         getenv("GATEWAY_URL", "http://localhost:8090"),
		GatewayToken:       os.Getenv("GATEWAY_TOKEN"),
		GatewayRatePerSec:  parseFloat(os.Getenv("GATEWAY_RATE_PER_SEC"), 5),
		AdminTokenHash:     os.Getenv("ADMIN_TOKEN_HASH"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
	}

	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.LogsChannelID == "" {
		return nil, errors.New("LOGS_CHANNEL_ID is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return f
}

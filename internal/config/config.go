package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverPostgres      = "postgres"
	StorageDriverSQLite        = "sqlite"
	StorageDriverMemory        = "memory"
	StorageDriverDatastore     = "datastore"
	StorageDriverElasticsearch = "elasticsearch"
	StorageDriverRedis         = "redis"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT             string
	SHUTDOWN_TIMEOUT     time.Duration
	CORS_ALLOWED_ORIGINS []string
	// storage selection
	STORAGE_DRIVER string
	// database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	SQLITE_PATH          string
	// datastore config
	DATASTORE_PROJECT_ID string
	DATASTORE_KIND       string
	// elasticsearch config
	ELASTIC_URL   string
	ELASTIC_INDEX string
	// redis config
	REDIS_URL        string
	REDIS_KEY_PREFIX string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	LOG_PRETTY    bool
	// telemetry config
	SERVICE_NAME                string
	ENVIRONMENT                 string
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

// LoadEnvConfig reads .env (when present) and the process environment into DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:                    getEnvString("APP_PORT", "8080"),
		SHUTDOWN_TIMEOUT:            getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORS_ALLOWED_ORIGINS:        getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		STORAGE_DRIVER:              strings.ToLower(getEnvString("STORAGE_DRIVER", StorageDriverSQLite)),
		DB_HOST:                     getEnvString("DB_HOST", "localhost"),
		DB_PORT:                     getEnvInt("DB_PORT", 5432),
		DB_USER:                     getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:                 getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:                     getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:                 getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME:        getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:           getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:           getEnvInt("DB_MAX_OPEN_CONNS", 100),
		SQLITE_PATH:                 getEnvString("SQLITE_PATH", "employee.db"),
		DATASTORE_PROJECT_ID:        getEnvString("DATASTORE_PROJECT_ID", ""),
		DATASTORE_KIND:              getEnvString("DATASTORE_KIND", "Employee"),
		ELASTIC_URL:                 getEnvString("ELASTIC_URL", "http://localhost:9200"),
		ELASTIC_INDEX:               getEnvString("ELASTIC_INDEX", "employees"),
		REDIS_URL:                   getEnvString("REDIS_URL", "redis://localhost:6379/0"),
		REDIS_KEY_PREFIX:            getEnvString("REDIS_KEY_PREFIX", "employee"),
		LOG_FILE_PATH:               getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:                   getEnvString("LOG_LEVEL", "info"),
		LOG_PRETTY:                  getEnvBool("LOG_PRETTY", false),
		SERVICE_NAME:                getEnvString("SERVICE_NAME", "employee-details"),
		ENVIRONMENT:                 getEnvString("ENVIRONMENT", "development"),
		OTEL_EXPORTER_OTLP_ENDPOINT: getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

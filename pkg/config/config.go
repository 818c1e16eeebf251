package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	BasePath string
	Env      string // development, staging, production

	// Logging
	LogLevel          string
	LogFormat         string // "json" or "text"
	LogFile           string
	EnableFileLogging bool

	// Catalog seed; empty means the embedded catalog
	CatalogFile string

	// Content events; empty path keeps events in memory
	EventsDBPath string

	MetricsEnabled bool
	MetricsPath    string

	// Maximum number of concurrent draft sessions
	SessionLimit int

	ShutdownTimeout time.Duration
}

func Load() *Config {
	env := strings.ToLower(getEnv("ENV", "development"))

	enableFileLogging, _ := strconv.ParseBool(getEnv("ENABLE_FILE_LOGGING", "false"))

	metricsDefault := env == "development" || env == "staging"
	metricsEnabled, _ := strconv.ParseBool(getEnv("METRICS_ENABLED", strconv.FormatBool(metricsDefault)))

	sessionLimit, err := strconv.Atoi(getEnv("SESSION_LIMIT", "100"))
	if err != nil {
		sessionLimit = -1 // rejected by Validate
	}

	shutdownTO, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		shutdownTO = 0
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		BasePath: getEnv("BASE_PATH", "/"),
		Env:      env,

		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogFile:           getEnv("LOG_FILE", "/var/log/storefront-cms/app.log"),
		EnableFileLogging: enableFileLogging,

		CatalogFile:  getEnv("CATALOG_FILE", ""),
		EventsDBPath: getEnv("EVENTS_DB_PATH", ""),

		MetricsEnabled: metricsEnabled,
		MetricsPath:    getEnv("METRICS_PATH", "/metrics"),

		SessionLimit:    sessionLimit,
		ShutdownTimeout: shutdownTO,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

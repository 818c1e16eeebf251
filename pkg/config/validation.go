package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errs "storefront-cms/pkg/errors"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s' with value '%s': %s", e.Field, e.Value, e.Message)
}

// ConfigValidator collects validation errors so they can be reported together.
type ConfigValidator struct {
	errors []ValidationError
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{errors: make([]ValidationError, 0)}
}

func (cv *ConfigValidator) AddError(field, value, message string) {
	cv.errors = append(cv.errors, ValidationError{Field: field, Value: value, Message: message})
}

func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

func (cv *ConfigValidator) GetErrors() []ValidationError {
	return cv.errors
}

// GetErrorsAsString returns all validation errors as a formatted string
func (cv *ConfigValidator) GetErrorsAsString() string {
	var out []string
	for _, err := range cv.errors {
		out = append(out, err.Error())
	}
	return strings.Join(out, "\n")
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()

	c.validateFormats(validator)
	c.validateRanges(validator)
	c.validateEnvironment(validator)

	if validator.HasErrors() {
		return errs.NewValidation("config.Validate", fmt.Sprintf("configuration validation failed:\n%s", validator.GetErrorsAsString()), nil)
	}
	return nil
}

func (c *Config) validateFormats(validator *ConfigValidator) {
	if c.Port == "" {
		validator.AddError("PORT", c.Port, "port is required")
	} else if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		validator.AddError("PORT", c.Port, "invalid port number (must be 1-65535)")
	}

	if !strings.HasPrefix(c.BasePath, "/") {
		validator.AddError("BASE_PATH", c.BasePath, "base path must start with '/'")
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if c.LogLevel != "" && !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		validator.AddError("LOG_LEVEL", c.LogLevel, "invalid log level (must be one of: trace, debug, info, warn, error, fatal)")
	}

	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "text" {
		validator.AddError("LOG_FORMAT", c.LogFormat, "invalid log format (must be 'json' or 'text')")
	}

	if c.MetricsEnabled && !strings.HasPrefix(c.MetricsPath, "/") {
		validator.AddError("METRICS_PATH", c.MetricsPath, "metrics path must start with '/'")
	}
}

func (c *Config) validateRanges(validator *ConfigValidator) {
	if c.SessionLimit < 1 || c.SessionLimit > 10000 {
		validator.AddError("SESSION_LIMIT", strconv.Itoa(c.SessionLimit), "session limit must be between 1 and 10000")
	}
	if c.ShutdownTimeout <= 0 {
		validator.AddError("SHUTDOWN_TIMEOUT", c.ShutdownTimeout.String(), "shutdown timeout must be a positive duration")
	}
}

func (c *Config) validateEnvironment(validator *ConfigValidator) {
	if c.EnableFileLogging && c.LogFile != "" {
		if err := checkDirectoryWritable(c.LogFile); err != nil {
			validator.AddError("LOG_FILE", c.LogFile, fmt.Sprintf("log directory is not writable: %v", err))
		}
	}

	if c.CatalogFile != "" {
		if _, err := os.Stat(c.CatalogFile); err != nil {
			validator.AddError("CATALOG_FILE", c.CatalogFile, "catalog file is not readable")
		}
	}

	if c.EventsDBPath != "" {
		if err := checkDirectoryWritable(c.EventsDBPath); err != nil {
			validator.AddError("EVENTS_DB_PATH", c.EventsDBPath, fmt.Sprintf("events directory is not writable: %v", err))
		}
	}
}

// checkDirectoryWritable checks that the parent directory of filePath can be written to.
func checkDirectoryWritable(filePath string) error {
	dir := filepath.Dir(filePath)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.NewValidation("config.checkDirectoryWritable", "cannot create directory", err)
		}
	}

	tempFile := filepath.Join(dir, fmt.Sprintf(".write_test_%d", os.Getpid()))
	file, err := os.Create(tempFile)
	if err != nil {
		return errs.NewValidation("config.checkDirectoryWritable", "directory is not writable", err)
	}
	file.Close()
	os.Remove(tempFile)
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetConfigSummary returns a summary of the configuration for startup logs.
func (c *Config) GetConfigSummary() map[string]interface{} {
	return map[string]interface{}{
		"port":                c.Port,
		"base_path":           c.BasePath,
		"env":                 c.Env,
		"log_level":           c.LogLevel,
		"log_format":          c.LogFormat,
		"enable_file_logging": c.EnableFileLogging,
		"catalog_file":        c.CatalogFile,
		"events_db_path":      c.EventsDBPath,
		"metrics_enabled":     c.MetricsEnabled,
		"session_limit":       c.SessionLimit,
		"shutdown_timeout":    c.ShutdownTimeout.String(),
	}
}

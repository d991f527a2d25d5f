package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8000")
	ServerPort string

	// AccessKey is the shared secret clients must present. Empty means
	// authentication is not configured: login and guarded routes answer 503.
	AccessKey string

	// OpenAIKey is the upstream API key. Empty means the upstream client is
	// unavailable and AI routes answer 503.
	OpenAIKey string

	// LogLevel controls slog verbosity: debug, info, warn, error.
	LogLevel string

	// EnableFrontend serves the embedded frontend at / and /static/.
	EnableFrontend bool

	// LogRetentionDays controls how long request logs are kept. Logs older
	// than this are deleted at startup. Zero disables the sweep.
	LogRetentionDays int
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values. A missing access key or
// OpenAI key is a valid state, reported via Warnings, never a startup error.
func Load() *Config {
	fileConfig, _ := LoadFile() // Ignore error, use defaults

	return &Config{
		ServerPort:       normalizePort(getEnvOrFile("PORT", fileConfig.ServerPort, ":8000")),
		AccessKey:        getEnvOrFile("ACCESS_KEY", fileConfig.AccessKey, ""),
		OpenAIKey:        getEnvOrFile("OPENAI_API_KEY", fileConfig.OpenAIKey, ""),
		LogLevel:         getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		EnableFrontend:   getEnvBoolOrFile("ENABLE_FRONTEND", fileConfig.EnableFrontend, true),
		LogRetentionDays: getEnvIntOrFile("LOG_RETENTION_DAYS", fileConfig.LogRetentionDays, 90),
	}
}

// AuthConfigured reports whether a shared access key is set.
func (c *Config) AuthConfigured() bool {
	return c.AccessKey != ""
}

// OpenAIConfigured reports whether an upstream API key is set.
func (c *Config) OpenAIConfigured() bool {
	return c.OpenAIKey != ""
}

// Warnings lists configuration gaps worth surfacing in health output.
func (c *Config) Warnings() []string {
	var warnings []string
	if !c.OpenAIConfigured() {
		warnings = append(warnings, "OpenAI API key not configured")
	}
	if !c.AuthConfigured() {
		warnings = append(warnings, "Access key not configured")
	}
	return warnings
}

// normalizePort accepts both "8000" and ":8000" forms.
func normalizePort(port string) string {
	if port != "" && !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order).
// Unparseable or negative env values fall through to the file value.
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
	}
	if fileValue != nil && *fileValue >= 0 {
		return *fileValue
	}
	return defaultValue
}

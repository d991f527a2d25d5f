package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort       string `toml:"server_port"`
	AccessKey        string `toml:"access_key"`
	OpenAIKey        string `toml:"openai_api_key"`
	LogLevel         string `toml:"log_level"`
	EnableFrontend   *bool  `toml:"enable_frontend"`
	LogRetentionDays *int   `toml:"log_retention_days"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Ensure directory exists
	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# aiportal Configuration
# Environment variables with the same names take priority.

# server_port = ":8000"
# log_level = "info"
# enable_frontend = true

# Request logs older than this many days are deleted at startup.
# Set to 0 to keep logs forever.
# log_retention_days = 90

# Shared access key clients must present. Leave unset to disable
# authentication entirely (all guarded routes answer 503).
# access_key = "change-me"

# Upstream OpenAI API key. Leave unset to run without upstream access
# (AI routes answer 503, login and health still work).
# openai_api_key = "sk-..."
`

	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

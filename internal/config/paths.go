package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the aiportal data directory.
// - Windows: %APPDATA%\aiportal
// - Other OS: ~/.aiportal
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "aiportal")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".aiportal"
	}
	return filepath.Join(home, ".aiportal")
}

// ConfigPath returns the path to the config file (~/.aiportal/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "aiportal.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Storage backends selectable in the config file.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	BookmarksFile string `json:"bookmarksFile"` // "" = default Chrome profile
	Backend       string `json:"backend"`
	StoragePath   string `json:"storagePath"` // "" = default for backend
	LogFile       string `json:"logFile"`
	LogLevel      string `json:"logLevel"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	logFile := ""
	if dir, err := DefaultConfigDir(); err == nil {
		logFile = filepath.Join(dir, "bmcat.log")
	}
	return Config{
		Backend:  BackendJSON,
		LogFile:  logFile,
		LogLevel: "info",
	}
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.LogFile == "" {
		config.LogFile = defaults.LogFile
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigDir returns ~/.config/bmcat
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmcat"), nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/bmcat/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

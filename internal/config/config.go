package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bearmcp/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "bearmcp" // application name used for config directory

// DefaultCallbackTimeoutSecs bounds how long a tool call waits for Bear to
// answer on the x-success callback before failing.
const DefaultCallbackTimeoutSecs = 10

// DefaultOpenCommand is the macOS URL dispatcher. It is configurable only so
// tests and unusual setups can substitute their own opener.
const DefaultOpenCommand = "open"

// Config holds user configuration for bearmcp.
type Config struct {
	// Token is a plain-text fallback for the Bear API token, used only when
	// the OS keyring is unavailable. Prefer `bearmcp token set`.
	Token string `yaml:"token,omitempty"`

	// CallbackTimeoutSecs is the wait bound for x-success callbacks.
	CallbackTimeoutSecs int `yaml:"callback_timeout_secs"`

	// OpenCommand is the executable used to hand bear:// URLs to the OS.
	OpenCommand string `yaml:"open_command"`

	Version  string `yaml:"version"`   // Track config version
	InitTime int64  `yaml:"init_time"` // Unix timestamp of first setup
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// Load loads the config from the standard location.
// If no config exists, defaults are returned so the MCP server can run
// without a prior `bearmcp setup`.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		cfg := DefaultConfig()
		return &cfg, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Backfill zero values so hand-edited configs stay usable
	if cfg.CallbackTimeoutSecs <= 0 {
		cfg.CallbackTimeoutSecs = DefaultCallbackTimeoutSecs
	}
	if cfg.OpenCommand == "" {
		cfg.OpenCommand = DefaultOpenCommand
	}

	return &cfg, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if this is the first time the application is run
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CallbackTimeoutSecs: DefaultCallbackTimeoutSecs,
		OpenCommand:         DefaultOpenCommand,
		Version:             "1.0",
		InitTime:            0, // Will be set during first save
	}
}

// CallbackTimeout returns the configured callback wait bound as a duration.
func (c *Config) CallbackTimeout() time.Duration {
	secs := c.CallbackTimeoutSecs
	if secs <= 0 {
		secs = DefaultCallbackTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600): may hold the token fallback
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

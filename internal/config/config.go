// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for onboard.
type Config struct {
	APIURL           string `mapstructure:"api_url" yaml:"api_url"`
	AuthToken        string `mapstructure:"auth_token" yaml:"auth_token"`
	DebounceMs       int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	RequestTimeoutMs int    `mapstructure:"request_timeout_ms" yaml:"request_timeout_ms"`
	LogLevel         string `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string `mapstructure:"log_file" yaml:"log_file"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("onboard")

	// Set defaults (auth_token has no default - it comes from the identity provider)
	v.SetDefault("api_url", "http://localhost:8787")
	v.SetDefault("debounce_ms", 500)
	v.SetDefault("request_timeout_ms", 10000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	// Setup ENV binding with ONBOARD_ prefix
	v.SetEnvPrefix("ONBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better int parsing
	// Note: BindEnv errors are very rare (only invalid key names), but we check them anyway
	if err := v.BindEnv("api_url", "ONBOARD_API_URL"); err != nil {
		return nil, fmt.Errorf("binding api_url env: %w", err)
	}
	if err := v.BindEnv("auth_token", "ONBOARD_AUTH_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding auth_token env: %w", err)
	}
	if err := v.BindEnv("debounce_ms", "ONBOARD_DEBOUNCE_MS"); err != nil {
		return nil, fmt.Errorf("binding debounce_ms env: %w", err)
	}
	if err := v.BindEnv("request_timeout_ms", "ONBOARD_REQUEST_TIMEOUT_MS"); err != nil {
		return nil, fmt.Errorf("binding request_timeout_ms env: %w", err)
	}
	if err := v.BindEnv("log_level", "ONBOARD_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("binding log_level env: %w", err)
	}
	if err := v.BindEnv("log_file", "ONBOARD_LOG_FILE"); err != nil {
		return nil, fmt.Errorf("binding log_file env: %w", err)
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		// Need to set config file explicitly for merge
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is required (set it in onboard.yml or ONBOARD_API_URL)")
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must be >= 0, got %d", c.DebounceMs)
	}
	if c.RequestTimeoutMs <= 0 {
		return fmt.Errorf("request_timeout_ms must be > 0, got %d", c.RequestTimeoutMs)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/onboard/onboard.yml or $XDG_CONFIG_HOME/onboard/onboard.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "onboard", "onboard.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "onboard", "onboard.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./onboard.yml in the current working directory.
func ProjectPath() string {
	return "onboard.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Config may carry an auth token, keep it private to the user
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	path := ProjectPath()

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

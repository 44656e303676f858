// Package config provides configuration loading and validation for the agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the agent configuration. Values can come from a JSON file, the
// environment, or CLI flags; missing values use defaults.
type Config struct {
	// Browser provisioning service
	ProvisionURL string `json:"provision_url,omitempty"` // Base URL of the cloud browser service
	ProvisionKey string `json:"provision_key,omitempty"` // API key for the cloud browser service

	// CDPURL, when set, bypasses provisioning and attaches to a browser that
	// is already running (local development).
	CDPURL string `json:"cdp_url,omitempty"`

	// Server
	Port int `json:"port,omitempty"` // HTTP port for serve mode

	// Logging
	JSONLog bool `json:"json_log,omitempty"` // Emit JSON logs instead of console
	Debug   bool `json:"debug,omitempty"`    // Lower the log level to debug
}

// Environment variable names.
const (
	EnvProvisionURL = "BROWSER_PROVISION_URL"
	EnvProvisionKey = "BROWSER_PROVISION_API_KEY"
	EnvCDPURL       = "CDP_URL"
)

// DefaultPort is the serve-mode listen port.
const DefaultPort = 8080

// FromEnv builds a config from the environment.
func FromEnv() *Config {
	return &Config{
		ProvisionURL: os.Getenv(EnvProvisionURL),
		ProvisionKey: os.Getenv(EnvProvisionKey),
		CDPURL:       os.Getenv(EnvCDPURL),
		Port:         DefaultPort,
	}
}

// Load reads a JSON config file and merges the environment on top of any
// fields the file leaves empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	env := FromEnv()
	if cfg.ProvisionURL == "" {
		cfg.ProvisionURL = env.ProvisionURL
	}
	if cfg.ProvisionKey == "" {
		cfg.ProvisionKey = env.ProvisionKey
	}
	if cfg.CDPURL == "" {
		cfg.CDPURL = env.CDPURL
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	return &cfg, nil
}

// Validate checks that the configuration names a browser source.
func (c *Config) Validate() error {
	if c.ProvisionURL == "" && c.CDPURL == "" {
		return fmt.Errorf("config error: either %s or %s must be set", EnvProvisionURL, EnvCDPURL)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Apps     []AppConfig    `yaml:"apps"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/account.yaml"
	}

	// Ensure absolute path
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Read config file
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the invariants the rest of the process relies on. The
// config is immutable after load, so this runs exactly once at startup.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url is required")
	}
	if c.Service.Stripe.SecretKey == "" {
		return fmt.Errorf("service.stripe.secret_key is required")
	}
	if c.Service.Supabase.ProjectURL == "" {
		return fmt.Errorf("service.supabase.project_url is required")
	}
	if c.Service.Supabase.JWTSecret == "" {
		return fmt.Errorf("service.supabase.jwt_secret is required")
	}
	return ValidateApps(c.Apps)
}

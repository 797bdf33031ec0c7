// Package config provides configuration loading and management for the
// Oratio service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address (default: :8000)
	Addr string `yaml:"addr"`
	// AllowedOrigins is the CORS origin allowlist.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// ReadTimeout bounds request reading.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout bounds response writing. Generous because a single
	// analysis may involve several model round trips.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ProviderConfig is one provider credential/endpoint bundle. A bundle
// with an empty APIKey leaves that provider unconfigured.
type ProviderConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// ProvidersConfig holds both provider bundles. Each is independently
// optional; the service operates with one, both, or neither.
type ProvidersConfig struct {
	// Gemini is the primary provider.
	Gemini ProviderConfig `yaml:"gemini"`
	// OpenAI is the secondary (failover) provider.
	OpenAI ProviderConfig `yaml:"openai"`
}

// DatabaseConfig configures the user store.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	// TokenTTL is the access-token lifetime.
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8000",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Providers: ProvidersConfig{
			Gemini: ProviderConfig{Model: "gemini-2.0-flash"},
			OpenAI: ProviderConfig{Model: "gpt-4o-mini"},
		},
		Database: DatabaseConfig{
			Path: "oratio.db",
		},
		Auth: AuthConfig{
			TokenTTL: 30 * time.Minute,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Providers.Gemini.APIKey != "" && c.Providers.Gemini.Model == "" {
		return fmt.Errorf("providers.gemini.model is required when the API key is set")
	}
	if c.Providers.OpenAI.APIKey != "" && c.Providers.OpenAI.Model == "" {
		return fmt.Errorf("providers.openai.model is required when the API key is set")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

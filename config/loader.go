package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load builds the effective configuration with layered precedence:
// defaults, then an optional YAML file, then environment variables.
// A .env file in the working directory is loaded best-effort first so
// that credentials never have to live in the YAML file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}

	applyEnv(config)
	return config, nil
}

// applyEnv overrides config fields from environment variables.
func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv("ORATIO_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("ORATIO_DB")); v != "" {
		c.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		origins := strings.Split(v, ",")
		c.Server.AllowedOrigins = c.Server.AllowedOrigins[:0]
		for _, origin := range origins {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, origin)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		c.Providers.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		c.Providers.Gemini.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		c.Providers.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		c.Providers.OpenAI.Model = v
	}

	if v := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); v != "" {
		if d, err := time.ParseDuration(v + "m"); err == nil && d > 0 {
			c.Auth.TokenTTL = d
		}
	}
}

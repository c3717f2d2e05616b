// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the server needs to start. All values come
// from environment variables; only JWT_SECRET has no usable default.
type Config struct {
	ServerAddress string        `env:"SERVER_ADDRESS" envDefault:":8080"`
	DBPath        string        `env:"DB_PATH" envDefault:"links.db"`
	JWTSecret     string        `env:"JWT_SECRET"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`

	// GitHub OAuth App credentials. Leaving them empty disables the
	// GitHub sign-in routes; email/password auth still works.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL" envDefault:"http://localhost:8080/auth/github/callback"`
}

// New parses the environment into a Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must be set")
	}
	return cfg, nil
}

// GitHubEnabled reports whether the OAuth routes should be mounted.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

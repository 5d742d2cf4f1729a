// Package config loads the service configuration from config.toml, an optional
// per-environment overlay, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/visage/pkg/database"
	"github.com/JaimeStill/visage/pkg/dify"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVisageEnv             = "VISAGE_ENV"
	EnvVisageShutdownTimeout = "VISAGE_SHUTDOWN_TIMEOUT"
	EnvVisageVersion         = "VISAGE_VERSION"
)

var databaseEnv = &database.Env{
	Enabled:         "VISAGE_DB_ENABLED",
	Host:            "VISAGE_DB_HOST",
	Port:            "VISAGE_DB_PORT",
	Name:            "VISAGE_DB_NAME",
	User:            "VISAGE_DB_USER",
	Password:        "VISAGE_DB_PASSWORD",
	SSLMode:         "VISAGE_DB_SSL_MODE",
	MaxOpenConns:    "VISAGE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VISAGE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VISAGE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VISAGE_DB_CONN_TIMEOUT",
}

var difyEnv = &dify.Env{
	BaseURL:    "DIFY_API_URL",
	APIKey:     "DIFY_API_KEY",
	WorkflowID: "DIFY_WORKFLOW_ID",
	Timeout:    "DIFY_TIMEOUT",
}

// Config is the root configuration for the Visage service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Dify            dify.Config     `toml:"dify"`
	Database        database.Config `toml:"database"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the VISAGE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVisageEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
//
// Missing Dify credentials do not fail Load; the relay reports them per request.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom behaves like Load with an explicit base config path. The overlay
// is resolved relative to the same directory.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Dify.Merge(&overlay.Dify)
	c.Database.Merge(&overlay.Database)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Dify.Finalize(difyEnv); err != nil {
		return fmt.Errorf("dify: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVisageShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVisageVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvVisageEnv)
	if env == "" {
		return ""
	}

	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

package dify

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the Dify connection settings. BaseURL, APIKey, and WorkflowID
// form the required set; Finalize does not reject a missing set so the service
// can start and report the problem per request (see Validate).
type Config struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	WorkflowID string `toml:"workflow_id"`
	Timeout    string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL    string
	APIKey     string
	WorkflowID string
	Timeout    string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Validate reports ErrNotConfigured when any of the required values is empty.
func (c *Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base_url")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.WorkflowID == "" {
		missing = append(missing, "workflow_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// Finalize applies defaults, environment variable overrides, and validation
// of the optional fields.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.WorkflowID != "" {
		c.WorkflowID = overlay.WorkflowID
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.WorkflowID != "" {
		if v := os.Getenv(env.WorkflowID); v != "" {
			c.WorkflowID = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

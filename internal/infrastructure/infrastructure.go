// Package infrastructure assembles the dependencies domain systems share:
// lifecycle coordination, logging, the Dify client, and the optional database.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/visage/internal/config"
	"github.com/JaimeStill/visage/pkg/database"
	"github.com/JaimeStill/visage/pkg/dify"
	"github.com/JaimeStill/visage/pkg/lifecycle"
)

// Infrastructure holds the core systems required by domain modules.
// Database is nil when run history is disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Dify      *dify.Client
	Database  database.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger behaves like New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Dify:      dify.New(cfg.Dify, logger),
	}

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	return infra, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
// An enabled database gates readiness.
func (i *Infrastructure) Start() error {
	if i.Database == nil {
		return nil
	}

	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	i.Lifecycle.Track(i.Database)
	return nil
}

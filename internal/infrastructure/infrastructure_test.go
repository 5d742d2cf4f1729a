package infrastructure_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/visage/internal/config"
	"github.com/JaimeStill/visage/internal/infrastructure"
	"github.com/JaimeStill/visage/pkg/database"
	"github.com/JaimeStill/visage/pkg/dify"
)

func testConfig() *config.Config {
	return &config.Config{
		Dify: dify.Config{
			BaseURL:    "http://dify.local/v1",
			APIKey:     "app-key",
			WorkflowID: "wf-1",
			Timeout:    "2m",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "visage",
			User:            "visage",
			Password:        "visage",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Version: "0.1.0",
	}
}

func newInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return infra
}

func TestNewWithoutDatabase(t *testing.T) {
	infra := newInfra(t, testConfig())

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Dify == nil {
		t.Fatal("core systems should be initialized")
	}
	if infra.Database != nil {
		t.Error("database should be nil when disabled")
	}
	if err := infra.Dify.Validate(); err != nil {
		t.Errorf("dify validate: %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Errorf("start: %v", err)
	}

	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle should be ready without a database")
	}
}

func TestNewWithDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Enabled = true

	infra := newInfra(t, cfg)
	if infra.Database == nil {
		t.Fatal("database should be initialized when enabled")
	}
	defer infra.Database.Connection().Close()

	if infra.Database.Ready() {
		t.Error("database should not be ready before start")
	}
}

func TestNewKeepsIncompleteDify(t *testing.T) {
	cfg := testConfig()
	cfg.Dify.APIKey = ""

	infra := newInfra(t, cfg)
	if err := infra.Dify.Validate(); !errors.Is(err, dify.ErrNotConfigured) {
		t.Errorf("validate = %v, want ErrNotConfigured", err)
	}
}

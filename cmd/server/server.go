package main

import (
	"time"

	"github.com/JaimeStill/visage/internal/config"
	"github.com/JaimeStill/visage/internal/infrastructure"
	"github.com/JaimeStill/visage/pkg/formatting"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	logBanner(cfg, infra)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

func logBanner(cfg *config.Config, infra *infrastructure.Infrastructure) {
	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"analyze", []string{cfg.API.BasePath + analyzePath, analyzePath},
		"max_upload", formatting.FormatBytes(cfg.API.MaxUploadSizeBytes(), 0),
		"run_history", cfg.Database.Enabled,
	)

	if err := infra.Dify.Validate(); err != nil {
		infra.Logger.Warn("dify configuration incomplete; analyze requests will fail", "error", err)
	}
}

// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/visage/internal/config"
	"github.com/JaimeStill/visage/internal/infrastructure"
	"github.com/JaimeStill/visage/pkg/middleware"
	"github.com/JaimeStill/visage/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every route is relative to the module, so Handler() can also serve
// unprefixed paths such as /analyzeFace.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}

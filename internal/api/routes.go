package api

import (
	"net/http"

	"github.com/JaimeStill/visage/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	groups := []routes.Group{
		domain.Relay.Handler(runtime.MaxUploadSize).Routes(),
	}

	if domain.Runs != nil {
		groups = append(groups, domain.Runs.Handler().Routes())
	}

	routes.Register(mux, groups...)
}

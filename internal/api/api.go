// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/formworks/intake/internal/config"
	"github.com/formworks/intake/internal/infrastructure"
	"github.com/formworks/intake/pkg/middleware"
	"github.com/formworks/intake/pkg/module"
	"github.com/formworks/intake/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}

package api

import (
	"net/http"

	"github.com/formworks/intake/internal/config"
	"github.com/formworks/intake/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Submissions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Identities.Handler().Routes(),
		domain.Certificates.Handler().Routes(),
	)
}

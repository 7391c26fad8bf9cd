package api

import (
	"github.com/formworks/intake/internal/config"
	"github.com/formworks/intake/internal/infrastructure"
	"github.com/formworks/intake/pkg/pagination"
	"github.com/formworks/intake/pkg/webhook"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	WebhookConfig *webhook.Config
	Pagination    pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Uploads:   infra.Uploads,
			Validator: infra.Validator,
			Webhook:   infra.Webhook,
		},
		WebhookConfig: &cfg.Webhook,
		Pagination:    cfg.API.Pagination,
	}
}

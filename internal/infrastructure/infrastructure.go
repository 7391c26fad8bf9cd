// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, uploads, webhook) that domain
// systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/formworks/intake/internal/config"
	"github.com/formworks/intake/pkg/database"
	"github.com/formworks/intake/pkg/lifecycle"
	"github.com/formworks/intake/pkg/uploader"
	"github.com/formworks/intake/pkg/webhook"
	"github.com/lmittmann/tint"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, the upload backend, and the automation webhook.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Uploads   uploader.Backend
	Validator *uploader.Validator
	Webhook   *webhook.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := newLogger(cfg)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	backend, err := uploader.Select(ctx, &cfg.Uploads, logger)
	if err != nil {
		return nil, fmt.Errorf("uploads init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Uploads:   backend,
		Validator: uploader.NewValidator(&cfg.Uploads),
		Webhook:   webhook.New(&cfg.Webhook, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}

// newLogger builds the service logger. Local environments get colorized
// terminal output; everything else uses the text handler.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Env() == "local" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

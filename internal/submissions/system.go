package submissions

import (
	"context"
	"log/slog"

	"github.com/formworks/intake/pkg/uploader"
	"github.com/formworks/intake/pkg/webhook"
)

// System defines the public contract for submission operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Submit runs one intake submission end to end. Each call constructs a
	// fresh orchestrator; concurrent submissions do not share state.
	Submit(ctx context.Context, form Form) (*Receipt, error)
}

type service struct {
	backend   uploader.Backend
	validator *uploader.Validator
	cfg       *webhook.Config
	webhook   *webhook.Client
	logger    *slog.Logger
}

// New creates a submission service over the selected upload backend and
// webhook configuration.
func New(
	backend uploader.Backend,
	validator *uploader.Validator,
	cfg *webhook.Config,
	client *webhook.Client,
	logger *slog.Logger,
) System {
	return &service{
		backend:   backend,
		validator: validator,
		cfg:       cfg,
		webhook:   client,
		logger:    logger.With("system", "submissions"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Submit(ctx context.Context, form Form) (*Receipt, error) {
	o := NewOrchestrator(s.backend, s.validator, s.cfg, s.webhook, s.logger)
	return o.Submit(ctx, form)
}

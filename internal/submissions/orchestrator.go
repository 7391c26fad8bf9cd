package submissions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formworks/intake/pkg/envelope"
	"github.com/formworks/intake/pkg/uploader"
	"github.com/formworks/intake/pkg/webhook"
)

// Orchestrator drives a single submission through the intake flow. An
// instance is single-use: a second Submit returns ErrConsumed. Progress
// observers registered at construction are invoked synchronously on every
// state transition.
type Orchestrator struct {
	backend   uploader.Backend
	validator *uploader.Validator
	webhook   *webhook.Client
	cfg       *webhook.Config
	logger    *slog.Logger
	state     State
	percent   int
	progress  func(Progress)
}

// Option configures an Orchestrator at construction.
type Option func(*Orchestrator)

// WithProgress registers a synchronous progress observer. The observer sees
// monotonically increasing percentages and exactly one terminal event.
func WithProgress(fn func(Progress)) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// NewOrchestrator creates a single-use Orchestrator over the selected
// backend and webhook client.
func NewOrchestrator(
	backend uploader.Backend,
	validator *uploader.Validator,
	cfg *webhook.Config,
	client *webhook.Client,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		backend:   backend,
		validator: validator,
		webhook:   client,
		cfg:       cfg,
		logger:    logger.With("system", "orchestrator"),
		state:     StateIdle,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Submit runs the full intake flow: validate, upload the three document
// groups, post the payload to the webhook, and extract the session
// identifier from the response envelope.
func (o *Orchestrator) Submit(ctx context.Context, form Form) (*Receipt, error) {
	if o.state != StateIdle {
		return nil, ErrConsumed
	}

	o.transition(StateValidating, 5)
	if err := o.validate(form); err != nil {
		return nil, o.fail(err)
	}

	o.transition(StateUploading, 10)
	now := time.Now().UTC()
	folder := sessionFolder(now)

	groups := []group{
		{subFolder: "main-id", items: []uploader.Item{form.MainID}},
		{subFolder: "additional-ids", items: form.AdditionalIDs},
		{subFolder: "certificate", items: []uploader.Item{form.Certificate}},
	}

	batch := uploader.NewBatch(o.backend, o.logger)
	var failures []uploader.Outcome
	uploaded := 0

	for i := range groups {
		groups[i].outcome = batch.UploadAll(
			ctx,
			groups[i].items,
			form.Email,
			folder+"/"+groups[i].subFolder,
		)
		uploaded += len(groups[i].outcome.Successes)
		failures = append(failures, groups[i].outcome.Failures...)
		o.transition(StateUploading, 10+20*(i+1))
	}

	if uploaded == 0 {
		return nil, o.fail(fmt.Errorf("%w: %s", ErrNoUploads, summarize(failures)))
	}

	o.transition(StateSubmitting, 75)
	payload := buildPayload(form, groups, folder, o.cfg.Key, now)

	o.transition(StateAwaitingResponse, 85)
	body, err := o.webhook.Send(ctx, []Payload{payload})
	if err != nil {
		return nil, o.fail(err)
	}

	o.transition(StateParsing, 95)
	sessionID, err := envelope.SessionID(body)
	if err != nil {
		// The reference id below exists only to correlate log lines for a
		// failed attempt; it is never surfaced as a session identifier.
		o.logger.Error(
			"webhook response yielded no session identifier",
			"reference", "ref-"+uuid.NewString(),
			"error", err,
		)
		return nil, o.fail(err)
	}

	o.transition(StateDone, 100)
	o.logger.Info(
		"submission complete",
		"session_id", sessionID,
		"uploaded", uploaded,
		"failed", len(failures),
	)

	return &Receipt{
		SessionID:     sessionID,
		SessionFolder: folder,
		State:         StateDone,
		Documents:     payload.Documents,
		Failures:      failures,
		TotalFiles:    payload.TotalFiles,
		SubmittedAt:   now,
	}, nil
}

// validate checks every submission precondition before any network call.
func (o *Orchestrator) validate(form Form) error {
	if !o.cfg.Configured() {
		return ErrWebhookNotConfigured
	}
	if form.Email == "" {
		return ErrEmailRequired
	}
	if len(form.MainID.File.Data) == 0 {
		return ErrMainIDRequired
	}
	if !anyRole(form) {
		return ErrRoleRequired
	}
	if len(form.Certificate.File.Data) == 0 {
		return ErrCertificateRequired
	}
	if _, err := uploader.ParseCategory(string(form.Certificate.Category)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	for _, item := range collectItems(form) {
		if err := o.validator.Validate(item.File); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) transition(state State, percent int) {
	o.state = state
	if percent > o.percent {
		o.percent = percent
	}
	if o.progress != nil {
		o.progress(Progress{State: state, Percent: o.percent})
	}
}

func (o *Orchestrator) fail(err error) error {
	o.transition(StateFailed, o.percent)
	o.logger.Error("submission failed", "state", StateFailed, "error", err)
	return err
}

func anyRole(form Form) bool {
	if form.MainID.Role != "" {
		return true
	}
	for _, item := range form.AdditionalIDs {
		if item.Role != "" {
			return true
		}
	}
	return false
}

func collectItems(form Form) []uploader.Item {
	items := make([]uploader.Item, 0, len(form.AdditionalIDs)+2)
	items = append(items, form.MainID)
	items = append(items, form.AdditionalIDs...)
	items = append(items, form.Certificate)
	return items
}

func summarize(failures []uploader.Outcome) string {
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Filename+": "+f.Error)
	}
	return strings.Join(msgs, "; ")
}

func sessionFolder(now time.Time) string {
	return fmt.Sprintf(
		"submission-%s-%s",
		now.Format("20060102T150405"),
		uuid.NewString()[:8],
	)
}

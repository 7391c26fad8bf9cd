package submissions

import (
	"errors"
	"net/http"

	"github.com/formworks/intake/pkg/envelope"
	"github.com/formworks/intake/pkg/uploader"
	"github.com/formworks/intake/pkg/webhook"
)

// Configuration preconditions, checked before any network call.
var (
	ErrWebhookNotConfigured = errors.New("webhook url and key are not configured")
	ErrEmailRequired        = errors.New("submitter email is required")
)

// Form validation errors.
var (
	ErrMainIDRequired      = errors.New("main identity document is required")
	ErrRoleRequired        = errors.New("at least one role is required")
	ErrCertificateRequired = errors.New("certificate document is required")
	ErrInvalidForm         = errors.New("invalid submission form")
)

// Submission flow errors.
var (
	ErrNoUploads = errors.New("no documents were uploaded successfully")
	ErrConsumed  = errors.New("orchestrator already consumed; construct a new one")
)

// MapHTTPStatus maps submission errors to HTTP status codes. Configuration
// gaps surface as 503 so callers can distinguish operator error from bad
// input; upstream webhook failures surface as 502.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrWebhookNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrMainIDRequired),
		errors.Is(err, ErrRoleRequired),
		errors.Is(err, ErrCertificateRequired),
		errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoUploads),
		errors.Is(err, webhook.ErrTransport),
		errors.Is(err, envelope.ErrNoSessionID),
		errors.Is(err, envelope.ErrEmptyEnvelope):
		return http.StatusBadGateway
	case errors.Is(err, ErrConsumed):
		return http.StatusConflict
	}

	var respErr *webhook.ResponseError
	if errors.As(err, &respErr) {
		return http.StatusBadGateway
	}

	if status := uploader.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}

	return http.StatusInternalServerError
}

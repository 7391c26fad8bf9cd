package submissions_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/formworks/intake/internal/submissions"
	"github.com/formworks/intake/pkg/envelope"
	"github.com/formworks/intake/pkg/uploader"
	"github.com/formworks/intake/pkg/webhook"
)

// fakeBackend fails uploads for filenames present in failures.
type fakeBackend struct {
	failures map[string]bool
	calls    atomic.Int32
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Upload(
	ctx context.Context,
	file uploader.File,
	owner, destPath string,
) (*uploader.Result, error) {
	f.calls.Add(1)
	if f.failures[file.Name] {
		return nil, &uploader.UploadError{
			Backend:  "fake",
			Filename: file.Name,
			Message:  "simulated failure",
		}
	}
	return &uploader.Result{
		ID:        "id-" + file.Name,
		WebURL:    "https://files.example.com/" + file.Name,
		SizeBytes: file.Size,
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pdfItem(name, role string, category uploader.Category) uploader.Item {
	return uploader.Item{
		File: uploader.File{
			Name:        name,
			ContentType: "application/pdf",
			Size:        1024,
			Data:        []byte("%PDF-1.4 test"),
		},
		Role:     role,
		Category: category,
	}
}

func validForm() submissions.Form {
	return submissions.Form{
		MainID:      pdfItem("passport.pdf", "director", uploader.CategoryMainID),
		Certificate: pdfItem("cert.pdf", "", uploader.CategoryIncorporation),
		Email:       "user@example.com",
	}
}

func testValidator() *uploader.Validator {
	return &uploader.Validator{
		AcceptedTypes: []string{"application/pdf"},
		MaxSizeBytes:  10 * 1024 * 1024,
	}
}

// webhookServer records received payloads and replies with the given body.
func webhookServer(t *testing.T, responseBody string, requests *atomic.Int32) (*webhook.Config, *webhook.Client) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var payloads []submissions.Payload
		if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
			t.Errorf("payload decode failed: %v", err)
		} else if len(payloads) != 1 {
			t.Errorf("payload elements: got %d, want 1", len(payloads))
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	cfg := &webhook.Config{URL: server.URL, Key: "secret", Timeout: "5s"}
	return cfg, webhook.New(cfg, discardLogger())
}

func TestSubmitHappyPath(t *testing.T) {
	var requests atomic.Int32
	cfg, client := webhookServer(t, `[{"body": "{\"SessionId\": \"sess-42\"}"}]`, &requests)
	backend := &fakeBackend{}

	var events []submissions.Progress
	o := submissions.NewOrchestrator(
		backend, testValidator(), cfg, client, discardLogger(),
		submissions.WithProgress(func(p submissions.Progress) {
			events = append(events, p)
		}),
	)

	form := validForm()
	form.AdditionalIDs = []uploader.Item{
		pdfItem("extra.pdf", "secretary", uploader.CategoryAdditionalID),
	}

	receipt, err := o.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if receipt.SessionID != "sess-42" {
		t.Errorf("SessionID = %q, want sess-42", receipt.SessionID)
	}
	if receipt.State != submissions.StateDone {
		t.Errorf("State = %q, want done", receipt.State)
	}
	if receipt.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", receipt.TotalFiles)
	}
	if len(receipt.Failures) != 0 {
		t.Errorf("Failures = %d, want 0", len(receipt.Failures))
	}
	if requests.Load() != 1 {
		t.Errorf("webhook requests = %d, want 1", requests.Load())
	}

	// Percentages must be monotonic, with exactly one terminal event at 100.
	last := -1
	terminal := 0
	for _, e := range events {
		if e.Percent < last {
			t.Errorf("progress went backwards: %d after %d", e.Percent, last)
		}
		last = e.Percent
		if e.State.Terminal() {
			terminal++
		}
	}
	if terminal != 1 {
		t.Errorf("terminal events = %d, want 1", terminal)
	}
	if last != 100 {
		t.Errorf("final percent = %d, want 100", last)
	}
}

func TestSubmitPartialUploadFailure(t *testing.T) {
	var requests atomic.Int32
	cfg, client := webhookServer(t, `[{"body": "{\"SessionId\": \"sess-42\"}"}]`, &requests)
	backend := &fakeBackend{failures: map[string]bool{"extra.pdf": true}}

	o := submissions.NewOrchestrator(backend, testValidator(), cfg, client, discardLogger())

	form := validForm()
	form.AdditionalIDs = []uploader.Item{
		pdfItem("extra.pdf", "secretary", uploader.CategoryAdditionalID),
	}

	receipt, err := o.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if receipt.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", receipt.TotalFiles)
	}
	if len(receipt.Failures) != 1 {
		t.Fatalf("Failures = %d, want 1", len(receipt.Failures))
	}
	if receipt.Failures[0].Filename != "extra.pdf" {
		t.Errorf("failed filename = %q", receipt.Failures[0].Filename)
	}
	if requests.Load() != 1 {
		t.Errorf("webhook requests = %d, want 1 (partial failure still submits)", requests.Load())
	}
}

func TestSubmitAllUploadsFail(t *testing.T) {
	var requests atomic.Int32
	cfg, client := webhookServer(t, `[]`, &requests)
	backend := &fakeBackend{failures: map[string]bool{"passport.pdf": true, "cert.pdf": true}}

	o := submissions.NewOrchestrator(backend, testValidator(), cfg, client, discardLogger())

	_, err := o.Submit(context.Background(), validForm())
	if !errors.Is(err, submissions.ErrNoUploads) {
		t.Fatalf("error = %v, want ErrNoUploads", err)
	}
	if requests.Load() != 0 {
		t.Errorf("webhook requests = %d, want 0", requests.Load())
	}
	if o.State() != submissions.StateFailed {
		t.Errorf("state = %q, want failed", o.State())
	}
}

func TestSubmitWebhookNotConfigured(t *testing.T) {
	cfg := &webhook.Config{Timeout: "5s"}
	backend := &fakeBackend{}

	o := submissions.NewOrchestrator(
		backend, testValidator(), cfg, webhook.New(cfg, discardLogger()), discardLogger(),
	)

	_, err := o.Submit(context.Background(), validForm())
	if !errors.Is(err, submissions.ErrWebhookNotConfigured) {
		t.Fatalf("error = %v, want ErrWebhookNotConfigured", err)
	}
	if backend.calls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0 (no staging before config check)", backend.calls.Load())
	}
}

func TestSubmitValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*submissions.Form)
		wantErr error
	}{
		{
			name:    "missing email",
			mutate:  func(f *submissions.Form) { f.Email = "" },
			wantErr: submissions.ErrEmailRequired,
		},
		{
			name:    "missing main id",
			mutate:  func(f *submissions.Form) { f.MainID.File.Data = nil },
			wantErr: submissions.ErrMainIDRequired,
		},
		{
			name:    "missing role",
			mutate:  func(f *submissions.Form) { f.MainID.Role = "" },
			wantErr: submissions.ErrRoleRequired,
		},
		{
			name:    "missing certificate",
			mutate:  func(f *submissions.Form) { f.Certificate.File.Data = nil },
			wantErr: submissions.ErrCertificateRequired,
		},
		{
			name:    "invalid certificate category",
			mutate:  func(f *submissions.Form) { f.Certificate.Category = "invoice" },
			wantErr: submissions.ErrInvalidForm,
		},
		{
			name: "unsupported file type",
			mutate: func(f *submissions.Form) {
				f.MainID.File.ContentType = "text/plain"
			},
			wantErr: uploader.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			cfg, client := webhookServer(t, `[]`, &requests)
			backend := &fakeBackend{}

			o := submissions.NewOrchestrator(backend, testValidator(), cfg, client, discardLogger())

			form := validForm()
			tt.mutate(&form)

			_, err := o.Submit(context.Background(), form)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if backend.calls.Load() != 0 {
				t.Errorf("backend calls = %d, want 0", backend.calls.Load())
			}
			if requests.Load() != 0 {
				t.Errorf("webhook requests = %d, want 0", requests.Load())
			}
		})
	}
}

func TestSubmitRepairsMalformedEnvelope(t *testing.T) {
	var requests atomic.Int32
	cfg, client := webhookServer(
		t,
		`[{"body": "{\"SessionId\": \"abc123\", \"foo\": \"bar\"\"}"}]`,
		&requests,
	)
	backend := &fakeBackend{}

	o := submissions.NewOrchestrator(backend, testValidator(), cfg, client, discardLogger())

	receipt, err := o.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if receipt.SessionID != "abc123" {
		t.Errorf("SessionID = %q, want abc123", receipt.SessionID)
	}
}

func TestSubmitNoSessionIdentifier(t *testing.T) {
	var requests atomic.Int32
	cfg, client := webhookServer(t, `[{"body": "{\"status\": \"ok\"}"}]`, &requests)
	backend := &fakeBackend{}

	o := submissions.NewOrchestrator(backend, testValidator(), cfg, client, discardLogger())

	_, err := o.Submit(context.Background(), validForm())
	if !errors.Is(err, envelope.ErrNoSessionID) {
		t.Fatalf("error = %v, want ErrNoSessionID", err)
	}
	if o.State() != submissions.StateFailed {
		t.Errorf("state = %q, want failed", o.State())
	}
}

func TestSubmitSingleUse(t *testing.T) {
	var requests atomic.Int32
	cfg, client := webhookServer(t, `[{"body": "{\"SessionId\": \"sess-42\"}"}]`, &requests)
	backend := &fakeBackend{}

	o := submissions.NewOrchestrator(backend, testValidator(), cfg, client, discardLogger())

	if _, err := o.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	_, err := o.Submit(context.Background(), validForm())
	if !errors.Is(err, submissions.ErrConsumed) {
		t.Fatalf("second Submit() error = %v, want ErrConsumed", err)
	}
	if requests.Load() != 1 {
		t.Errorf("webhook requests = %d, want 1", requests.Load())
	}
}

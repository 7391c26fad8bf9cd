package uploader_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/formworks/intake/pkg/uploader"
)

// fakeBackend fails uploads for filenames present in failures and records
// the order of calls.
type fakeBackend struct {
	failures map[string]bool
	calls    []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Upload(
	ctx context.Context,
	file uploader.File,
	owner, destPath string,
) (*uploader.Result, error) {
	f.calls = append(f.calls, file.Name)
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

func stagedItems(n int) []uploader.Item {
	items := make([]uploader.Item, 0, n)
	for i := range n {
		items = append(items, uploader.Item{
			File: uploader.File{
				Name:        fmt.Sprintf("doc-%d.pdf", i),
				ContentType: "application/pdf",
				Size:        100,
			},
			Role:     "applicant",
			Category: uploader.CategoryMainID,
		})
	}
	return items
}

func TestUploadAllSucceeds(t *testing.T) {
	backend := &fakeBackend{}
	batch := uploader.NewBatch(backend, discardLogger())

	outcome := batch.UploadAll(context.Background(), stagedItems(3), "user@example.com", "folder")

	if len(outcome.Successes) != 3 {
		t.Fatalf("successes: got %d, want 3", len(outcome.Successes))
	}
	if len(outcome.Failures) != 0 {
		t.Fatalf("failures: got %d, want 0", len(outcome.Failures))
	}

	for i, o := range outcome.Successes {
		if o.Index != i {
			t.Errorf("success %d: index = %d", i, o.Index)
		}
		if o.Result == nil {
			t.Errorf("success %d: nil result", i)
		}
	}
}

func TestUploadAllFailureIsolation(t *testing.T) {
	backend := &fakeBackend{failures: map[string]bool{"doc-1.pdf": true}}
	batch := uploader.NewBatch(backend, discardLogger())

	items := stagedItems(3)
	outcome := batch.UploadAll(context.Background(), items, "user@example.com", "folder")

	if len(backend.calls) != 3 {
		t.Fatalf("backend calls: got %d, want 3 (failure must not abort the batch)", len(backend.calls))
	}
	if len(outcome.Successes) != 2 {
		t.Errorf("successes: got %d, want 2", len(outcome.Successes))
	}
	if len(outcome.Failures) != 1 {
		t.Fatalf("failures: got %d, want 1", len(outcome.Failures))
	}

	failed := outcome.Failures[0]
	if failed.Index != 1 || failed.Filename != "doc-1.pdf" {
		t.Errorf("failure identity: index=%d filename=%s", failed.Index, failed.Filename)
	}
	if failed.Error == "" {
		t.Error("failure should carry an error message")
	}
}

func TestUploadAllPreservesOrder(t *testing.T) {
	backend := &fakeBackend{}
	batch := uploader.NewBatch(backend, discardLogger())

	items := stagedItems(5)
	batch.UploadAll(context.Background(), items, "user@example.com", "folder")

	for i, name := range backend.calls {
		want := fmt.Sprintf("doc-%d.pdf", i)
		if name != want {
			t.Errorf("call %d: got %s, want %s", i, name, want)
		}
	}
}

func TestUploadAllEmpty(t *testing.T) {
	backend := &fakeBackend{}
	batch := uploader.NewBatch(backend, discardLogger())

	outcome := batch.UploadAll(context.Background(), nil, "user@example.com", "folder")

	if len(outcome.Successes) != 0 || len(outcome.Failures) != 0 {
		t.Errorf("empty batch should produce empty outcome: %+v", outcome)
	}
}

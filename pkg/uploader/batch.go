package uploader

import (
	"context"
	"log/slog"
)

// Outcome records the result of one item within a batch. Result is populated
// on success; Error carries the failure message otherwise. Index, Role, and
// Category always correlate back to the originating item.
type Outcome struct {
	Index    int      `json:"index"`
	Filename string   `json:"filename"`
	Role     string   `json:"role"`
	Category Category `json:"category"`
	Result   *Result  `json:"result,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// BatchOutcome aggregates per-item results. Every submitted item appears in
// exactly one of the two lists.
type BatchOutcome struct {
	Successes []Outcome `json:"successes"`
	Failures  []Outcome `json:"failures"`
}

// Batch drives a Backend over a list of staged items.
type Batch struct {
	backend Backend
	logger  *slog.Logger
}

// NewBatch creates a Batch over the given backend.
func NewBatch(backend Backend, logger *slog.Logger) *Batch {
	return &Batch{
		backend: backend,
		logger:  logger.With("system", "batch"),
	}
}

// UploadAll uploads items strictly in input order, one adapter call each.
// A failed item never aborts the batch; processing continues with the next
// item and the failure is recorded. No retry happens at this layer.
func (b *Batch) UploadAll(ctx context.Context, items []Item, owner, folderPrefix string) BatchOutcome {
	outcome := BatchOutcome{
		Successes: make([]Outcome, 0, len(items)),
		Failures:  make([]Outcome, 0),
	}

	for i, item := range items {
		result, err := b.backend.Upload(ctx, item.File, owner, folderPrefix)
		if err != nil {
			b.logger.Warn(
				"upload failed",
				"backend", b.backend.Name(),
				"filename", item.File.Name,
				"index", i,
				"error", err,
			)
			outcome.Failures = append(outcome.Failures, Outcome{
				Index:    i,
				Filename: item.File.Name,
				Role:     item.Role,
				Category: item.Category,
				Error:    err.Error(),
			})
			continue
		}

		outcome.Successes = append(outcome.Successes, Outcome{
			Index:    i,
			Filename: item.File.Name,
			Role:     item.Role,
			Category: item.Category,
			Result:   result,
		})
	}

	return outcome
}

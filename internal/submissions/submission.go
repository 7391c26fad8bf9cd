// Package submissions implements the document intake flow: form validation,
// grouped batch uploads to the configured storage backend, webhook delivery
// of the normalized payload, and extraction of the session identifier that
// keys all later record lookups.
package submissions

import (
	"time"

	"github.com/formworks/intake/pkg/uploader"
)

// State identifies a phase of the submission flow. Done and Failed are
// terminal; Failed is reachable from every other state.
type State string

// Submission states.
const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateUploading        State = "uploading"
	StateSubmitting       State = "submitting"
	StateAwaitingResponse State = "awaiting_response"
	StateParsing          State = "parsing"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Terminal reports whether the state ends the submission.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Form carries one complete intake submission. MainID and Certificate are
// required; AdditionalIDs may be empty. Categories are fixed by position:
// MainID is always mainId, AdditionalIDs are always additionalId, and
// Certificate carries the user-selected certificate category.
type Form struct {
	MainID        uploader.Item
	AdditionalIDs []uploader.Item
	Certificate   uploader.Item
	Email         string
	DocumentType  string
}

// Progress is one observer event. Percent is monotonic within a submission
// and exactly one event carries a terminal state.
type Progress struct {
	State   State `json:"state"`
	Percent int   `json:"percent"`
}

// Receipt is the final output of a successful submission.
type Receipt struct {
	SessionID     string             `json:"session_id"`
	SessionFolder string             `json:"session_folder"`
	State         State              `json:"state"`
	Documents     []PayloadDocument  `json:"documents"`
	Failures      []uploader.Outcome `json:"failures,omitempty"`
	TotalFiles    int                `json:"total_files"`
	SubmittedAt   time.Time          `json:"submitted_at"`
}

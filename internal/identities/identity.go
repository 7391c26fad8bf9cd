// Package identities implements the identity-document record store. Records
// hold fields extracted from uploaded identity documents, keyed by the
// session identifier issued for the originating submission.
package identities

import "time"

// Identity is one extracted identity-document record.
type Identity struct {
	ID          int64      `json:"id"`
	SessionID   string     `json:"session_id"`
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	IDNumber    string     `json:"id_number"`
	IssueDate   *time.Time `json:"issue_date"`
	ValidUntil  *time.Time `json:"valid_until"`
	Role        string     `json:"role"`
	IDType      string     `json:"id_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpsertCommand carries the fields for an identity record write. When ID is
// set, the matching row is updated; otherwise an existing row for the
// session is updated if present, and a new row inserted if not.
type UpsertCommand struct {
	ID          *int64     `json:"id,omitempty"`
	SessionID   string     `json:"session_id"`
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	IDNumber    string     `json:"id_number"`
	IssueDate   *time.Time `json:"issue_date"`
	ValidUntil  *time.Time `json:"valid_until"`
	Role        string     `json:"role"`
	IDType      string     `json:"id_type"`
}

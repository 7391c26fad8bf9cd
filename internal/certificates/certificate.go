// Package certificates implements the certificate record store. Records hold
// fields extracted from uploaded certificate documents, keyed by the session
// identifier issued for the originating submission.
package certificates

import "time"

// Certificate is one extracted certificate record.
type Certificate struct {
	ID              int64      `json:"id"`
	SessionID       string     `json:"session_id"`
	CompanyName     string     `json:"company_name"`
	BusinessID      string     `json:"business_id"`
	IssueDate       *time.Time `json:"issue_date"`
	CertificateType string     `json:"certificate_type"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UpsertCommand carries the fields for a certificate record write. When ID
// is set, the matching row is updated; otherwise an existing row for the
// session is updated if present, and a new row inserted if not.
type UpsertCommand struct {
	ID              *int64     `json:"id,omitempty"`
	SessionID       string     `json:"session_id"`
	CompanyName     string     `json:"company_name"`
	BusinessID      string     `json:"business_id"`
	IssueDate       *time.Time `json:"issue_date"`
	CertificateType string     `json:"certificate_type"`
}

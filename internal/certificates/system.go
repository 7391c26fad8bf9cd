package certificates

import (
	"context"

	"github.com/formworks/intake/pkg/pagination"
)

// System defines the public contract for certificate record operations.
type System interface {
	Handler() *Handler

	// Find returns the certificate record for a session.
	Find(ctx context.Context, sessionID string) (*Certificate, error)
	// List returns a page of certificate records.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Certificate], error)
	// Upsert updates the record matched by id or session, inserting when absent.
	Upsert(ctx context.Context, cmd UpsertCommand) (*Certificate, error)
}

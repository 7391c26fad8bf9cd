package identities

import (
	"context"

	"github.com/formworks/intake/pkg/pagination"
)

// System defines the public contract for identity record operations.
type System interface {
	Handler() *Handler

	// Find returns all identity records for a session.
	Find(ctx context.Context, sessionID string) ([]Identity, error)
	// List returns a page of identity records.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Identity], error)
	// Upsert updates the record matched by id or session, inserting when absent.
	Upsert(ctx context.Context, cmd UpsertCommand) (*Identity, error)
}

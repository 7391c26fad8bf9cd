package api

import (
	"github.com/formworks/intake/internal/certificates"
	"github.com/formworks/intake/internal/identities"
	"github.com/formworks/intake/internal/submissions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Submissions  submissions.System
	Identities   identities.System
	Certificates certificates.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	submissionsSystem := submissions.New(
		runtime.Uploads,
		runtime.Validator,
		runtime.WebhookConfig,
		runtime.Webhook,
		runtime.Logger,
	)

	identitiesSystem := identities.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	certificatesSystem := certificates.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Submissions:  submissionsSystem,
		Identities:   identitiesSystem,
		Certificates: certificatesSystem,
	}
}

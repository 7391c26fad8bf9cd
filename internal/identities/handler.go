package identities

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/formworks/intake/pkg/handlers"
	"github.com/formworks/intake/pkg/pagination"
	"github.com/formworks/intake/pkg/routes"
)

// Handler provides HTTP endpoints for identity record operations.
type Handler struct {
	sys    System
	logger *slog.Logger
	pages  pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pages pagination.Config) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "identities"),
		pages:  pages,
	}
}

// Routes returns the route group definition for identity record endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/identities",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{session}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{session}", Handler: h.Upsert},
		},
	}
}

// List returns a paginated list of identity records.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pages)

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns the identity records for the session path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	records, err := h.sys.Find(r.Context(), r.PathValue("session"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if len(records) == 0 {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// Upsert writes an identity record for the session path parameter.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var cmd UpsertCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	cmd.SessionID = r.PathValue("session")

	record, err := h.sys.Upsert(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

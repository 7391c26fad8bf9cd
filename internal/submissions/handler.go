package submissions

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/formworks/intake/pkg/handlers"
	"github.com/formworks/intake/pkg/routes"
	"github.com/formworks/intake/pkg/uploader"
)

// Handler provides HTTP endpoints for submission operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "submissions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for submission endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/submissions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit},
		},
	}
}

// Submit processes a multipart intake form: a main identity document with a
// role, optional additional identity documents with parallel roles, and one
// certificate document with its category. On success it responds with the
// submission receipt carrying the session identifier.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, uploader.ErrFileTooLarge)
		return
	}

	form, err := h.parseForm(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	receipt, err := h.sys.Submit(r.Context(), *form)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) parseForm(r *http.Request) (*Form, error) {
	category, err := uploader.ParseCategory(r.FormValue("category"))
	if err != nil {
		return nil, err
	}

	mainFile, err := h.readFile(r, "main_id")
	if err != nil {
		return nil, err
	}

	certFile, err := h.readFile(r, "certificate")
	if err != nil {
		return nil, err
	}

	form := &Form{
		MainID: uploader.Item{
			File:     *mainFile,
			Role:     r.FormValue("main_role"),
			Category: uploader.CategoryMainID,
		},
		Certificate: uploader.Item{
			File:     *certFile,
			Category: category,
		},
		Email:        r.FormValue("email"),
		DocumentType: r.FormValue("document_type"),
	}

	roles := r.MultipartForm.Value["additional_role"]
	for i, header := range r.MultipartForm.File["additional_id"] {
		file, err := h.readHeader(header)
		if err != nil {
			return nil, err
		}

		item := uploader.Item{
			File:     *file,
			Category: uploader.CategoryAdditionalID,
		}
		if i < len(roles) {
			item.Role = roles[i]
		}
		form.AdditionalIDs = append(form.AdditionalIDs, item)
	}

	return form, nil
}

func (h *Handler) readFile(r *http.Request, field string) (*uploader.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidForm, field)
	}
	file.Close()

	return h.readHeader(header)
}

func (h *Handler) readHeader(header *multipart.FileHeader) (*uploader.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidForm, header.Filename, err)
	}
	defer file.Close()

	data := make([]byte, 0, header.Size)
	buf := bytes.NewBuffer(data)
	if _, err := buf.ReadFrom(file); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidForm, header.Filename, err)
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), buf.Bytes())

	return &uploader.File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
		PageCount:   extractPDFPageCount(h.logger, buf.Bytes(), contentType),
	}, nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}

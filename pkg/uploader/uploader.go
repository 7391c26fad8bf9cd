// Package uploader provides document staging, validation, and upload to a
// configurable cloud storage backend.
//
// A Backend uploads a single file and returns a normalized Result regardless
// of provider. Backend selection happens once at construction via Select;
// call sites never branch on the provider. Batch drives a Backend over a set
// of staged items with per-item failure isolation.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Provider identifies a supported storage backend.
type Provider string

// Supported storage providers.
const (
	ProviderOneDrive    Provider = "onedrive"
	ProviderGoogleDrive Provider = "gdrive"
	ProviderFirebase    Provider = "firebase"
	ProviderGCS         Provider = "gcs"
	ProviderAzure       Provider = "azure"
)

// Category determines the storage sub-folder and the downstream record table
// a document's extracted fields land in.
type Category string

// Document categories.
const (
	CategoryMainID        Category = "mainId"
	CategoryAdditionalID  Category = "additionalId"
	CategoryIncorporation Category = "incorporation"
	CategoryAuthorization Category = "authorization"
	CategoryExemption     Category = "exemption"
)

// ParseCategory validates and converts a raw category value.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryMainID, CategoryAdditionalID, CategoryIncorporation,
		CategoryAuthorization, CategoryExemption:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// File is one candidate document staged for upload. PageCount is optional
// metadata extracted by the caller for PDF files; nil means unknown.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
	PageCount   *int
}

// Item pairs a staged file with its user-supplied role and category.
type Item struct {
	File     File
	Role     string
	Category Category
}

// Result is the normalized descriptor for one uploaded file.
// WriteURL is populated only by backends that issue separate time-limited
// write access (GCS).
type Result struct {
	ID           string    `json:"id"`
	WebURL       string    `json:"web_url"`
	DownloadURL  string    `json:"download_url"`
	WriteURL     string    `json:"write_url,omitempty"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// Backend uploads one file to remote storage under the owner's destination
// path. Implementations do not retry; retry policy belongs to callers.
// Failures are reported as *UploadError.
type Backend interface {
	// Name returns the provider identifier for logging and error reporting.
	Name() string
	// Upload stores the file under destPath and returns its normalized descriptor.
	Upload(ctx context.Context, file File, owner, destPath string) (*Result, error)
}

// Select constructs the Backend named by cfg.Provider. Selection happens
// exactly once; the returned Backend is safe for reuse across submissions.
func Select(ctx context.Context, cfg *Config, logger *slog.Logger) (Backend, error) {
	switch Provider(cfg.Provider) {
	case ProviderOneDrive:
		return NewOneDrive(&cfg.OneDrive, logger), nil
	case ProviderGoogleDrive:
		return NewGoogleDrive(ctx, &cfg.GoogleDrive, logger)
	case ProviderFirebase:
		return NewFirebase(ctx, &cfg.Firebase, logger)
	case ProviderGCS:
		return NewGCS(ctx, &cfg.GCS, logger)
	case ProviderAzure:
		return NewAzure(&cfg.Azure, logger)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}

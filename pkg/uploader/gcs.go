package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type gcsBackend struct {
	client    *gcs.Client
	bucket    string
	signedTTL time.Duration
	logger    *slog.Logger
}

// NewGCS creates a Backend that streams uploads to a Cloud Storage bucket
// and returns time-limited signed read and write URLs for each object.
func NewGCS(ctx context.Context, cfg *GCSConfig, logger *slog.Logger) (Backend, error) {
	client, err := gcs.NewClient(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &gcsBackend{
		client:    client,
		bucket:    cfg.Bucket,
		signedTTL: cfg.SignedURLTTLDuration(),
		logger:    logger.With("backend", "gcs"),
	}, nil
}

func (g *gcsBackend) Name() string { return string(ProviderGCS) }

func (g *gcsBackend) Upload(ctx context.Context, file File, owner, destPath string) (*Result, error) {
	key := path.Join(destPath, file.Name)
	obj := g.client.Bucket(g.bucket).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = file.ContentType

	if _, err := w.Write(file.Data); err != nil {
		w.Close()
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}
	if err := w.Close(); err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	readURL, err := g.signedURL(key, "GET")
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	writeURL, err := g.signedURL(key, "PUT")
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	g.logger.Info("file uploaded", "name", file.Name, "path", key, "owner", owner)

	return &Result{
		ID:           key,
		WebURL:       readURL,
		DownloadURL:  readURL,
		WriteURL:     writeURL,
		SizeBytes:    attrs.Size,
		LastModified: attrs.Updated,
	}, nil
}

func (g *gcsBackend) signedURL(key, method string) (string, error) {
	return g.client.Bucket(g.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  method,
		Expires: time.Now().Add(g.signedTTL),
	})
}

package uploader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

type azureBackend struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// NewAzure creates a Backend that streams uploads into an Azure Blob Storage
// container addressed by connection string.
func NewAzure(cfg *AzureConfig, logger *slog.Logger) (Backend, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	return &azureBackend{
		client:    client,
		container: cfg.Container,
		logger:    logger.With("backend", "azure"),
	}, nil
}

func (a *azureBackend) Name() string { return string(ProviderAzure) }

func (a *azureBackend) Upload(ctx context.Context, file File, owner, destPath string) (*Result, error) {
	key := path.Join(destPath, file.Name)
	if strings.Contains(key, "..") {
		return nil, &UploadError{Backend: a.Name(), Filename: file.Name, Message: "invalid path segment"}
	}

	contentType := file.ContentType
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	resp, err := a.client.UploadStream(ctx, a.container, key, bytes.NewReader(file.Data), opts)
	if err != nil {
		return nil, &UploadError{Backend: a.Name(), Filename: file.Name, Message: err.Error()}
	}

	modified := time.Now().UTC()
	if resp.LastModified != nil {
		modified = *resp.LastModified
	}

	a.logger.Info("file uploaded", "name", file.Name, "path", key, "owner", owner)

	blobURL := fmt.Sprintf(
		"%s%s/%s",
		ensureTrailingSlash(a.client.URL()),
		a.container,
		key,
	)

	return &Result{
		ID:           key,
		WebURL:       blobURL,
		DownloadURL:  blobURL,
		SizeBytes:    file.Size,
		LastModified: modified,
	}, nil
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

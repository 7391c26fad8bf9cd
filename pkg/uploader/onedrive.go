package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

type oneDrive struct {
	tokens TokenProvider
	http   *http.Client
	base   string
	logger *slog.Logger
}

// NewOneDrive creates a Backend that PUTs raw file bytes to a path under the
// drive root of the owner identity via the Microsoft Graph API.
func NewOneDrive(cfg *OneDriveConfig, logger *slog.Logger) Backend {
	return &oneDrive{
		tokens: NewClientCredentials(
			fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
			cfg.ClientID,
			cfg.ClientSecret,
			[]string{"https://graph.microsoft.com/.default"},
		),
		http:   &http.Client{},
		base:   graphBaseURL,
		logger: logger.With("backend", "onedrive"),
	}
}

func (o *oneDrive) Name() string { return string(ProviderOneDrive) }

func (o *oneDrive) Upload(ctx context.Context, file File, owner, destPath string) (*Result, error) {
	token, err := o.tokens.Token(ctx)
	if err != nil {
		return nil, &UploadError{Backend: o.Name(), Filename: file.Name, Message: err.Error()}
	}

	name := SanitizeFilename(file.Name, time.Now())
	endpoint := fmt.Sprintf(
		"%s/users/%s/drive/root:/%s/%s:/content",
		o.base,
		url.PathEscape(owner),
		destPath,
		name,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(file.Data))
	if err != nil {
		return nil, &UploadError{Backend: o.Name(), Filename: file.Name, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", file.ContentType)

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, &UploadError{Backend: o.Name(), Filename: file.Name, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Backend: o.Name(), Filename: file.Name, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UploadError{
			Backend:    o.Name(),
			Filename:   file.Name,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var item struct {
		ID           string    `json:"id"`
		WebURL       string    `json:"webUrl"`
		Size         int64     `json:"size"`
		LastModified time.Time `json:"lastModifiedDateTime"`
		DownloadURL  string    `json:"@microsoft.graph.downloadUrl"`
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, &UploadError{Backend: o.Name(), Filename: file.Name, Message: fmt.Sprintf("decode drive item: %v", err)}
	}

	o.logger.Info("file uploaded", "name", name, "path", destPath, "id", item.ID)

	return &Result{
		ID:           item.ID,
		WebURL:       item.WebURL,
		DownloadURL:  item.DownloadURL,
		SizeBytes:    item.Size,
		LastModified: item.LastModified,
	}, nil
}

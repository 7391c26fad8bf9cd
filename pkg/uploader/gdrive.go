package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path"
	"time"

	"golang.org/x/oauth2/google"
)

const driveUploadURL = "https://www.googleapis.com/upload/drive/v3/files" +
	"?uploadType=multipart&fields=id,name,webViewLink,webContentLink,modifiedTime"

type googleDrive struct {
	tokens TokenProvider
	http   *http.Client
	upload string
	logger *slog.Logger
}

// NewGoogleDrive creates a Backend that uploads via the Drive v3 multipart
// endpoint: a JSON metadata part followed by the binary media part. The
// bearer token comes from the configured service account credentials.
func NewGoogleDrive(ctx context.Context, cfg *GoogleDriveConfig, logger *slog.Logger) (Backend, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, "https://www.googleapis.com/auth/drive.file")
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	return &googleDrive{
		tokens: NewTokenSource(creds.TokenSource),
		http:   &http.Client{},
		upload: driveUploadURL,
		logger: logger.With("backend", "gdrive"),
	}, nil
}

func (g *googleDrive) Name() string { return string(ProviderGoogleDrive) }

func (g *googleDrive) Upload(ctx context.Context, file File, owner, destPath string) (*Result, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	body, contentType, err := g.multipartBody(file, owner, destPath)
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.upload, body)
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UploadError{
			Backend:    g.Name(),
			Filename:   file.Name,
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var created struct {
		ID             string    `json:"id"`
		WebViewLink    string    `json:"webViewLink"`
		WebContentLink string    `json:"webContentLink"`
		ModifiedTime   time.Time `json:"modifiedTime"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, &UploadError{Backend: g.Name(), Filename: file.Name, Message: fmt.Sprintf("decode drive file: %v", err)}
	}

	g.logger.Info("file uploaded", "name", file.Name, "path", destPath, "id", created.ID)

	return &Result{
		ID:           created.ID,
		WebURL:       created.WebViewLink,
		DownloadURL:  created.WebContentLink,
		SizeBytes:    file.Size,
		LastModified: created.ModifiedTime,
	}, nil
}

// multipartBody assembles a multipart/related request: JSON metadata part
// first, binary media part second, per the Drive multipart upload protocol.
func (g *googleDrive) multipartBody(file File, owner, destPath string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metadata := map[string]any{
		"name": path.Base(file.Name),
		"appProperties": map[string]string{
			"owner":  owner,
			"folder": destPath,
		},
	}

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return nil, "", err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", file.ContentType)
	mediaPart, err := w.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := mediaPart.Write(file.Data); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, "multipart/related; boundary=" + w.Boundary(), nil
}

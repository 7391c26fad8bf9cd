package submissions

import (
	"time"

	"github.com/formworks/intake/pkg/uploader"
)

// PayloadDocument is one upload-result record within the webhook payload.
// ItemID and FileID both carry the remote identifier; the receiving
// automation scenarios reference it under both names.
type PayloadDocument struct {
	ItemID       string    `json:"itemId"`
	Filename     string    `json:"filename"`
	FileType     string    `json:"fileType"`
	DocType      string    `json:"docType"`
	Role         string    `json:"role"`
	FileID       string    `json:"fileId"`
	WebURL       string    `json:"webUrl"`
	DownloadURL  string    `json:"downloadUrl"`
	FileSize     int64     `json:"fileSize"`
	LastModified time.Time `json:"lastModified"`
	PageCount    *int      `json:"pageCount,omitempty"`
}

// Payload is the normalized structure sent to the webhook. It is constructed
// once per submission and never mutated afterwards. The webhook receives it
// wrapped in a single-element array for compatibility with the automation
// platform's iterator semantics.
type Payload struct {
	Documents     []PayloadDocument `json:"documents"`
	DocumentType  string            `json:"documentType"`
	Timestamp     time.Time         `json:"timestamp"`
	TotalFiles    int               `json:"totalFiles"`
	SessionFolder string            `json:"sessionFolder"`
	UserEmail     string            `json:"userEmail"`
	APIKey        string            `json:"apiKey"`
	Key           string            `json:"key"`
}

// group is one upload batch: the items staged for a sub-folder and, after
// the upload phase, their outcomes.
type group struct {
	subFolder string
	items     []uploader.Item
	outcome   uploader.BatchOutcome
}

func buildPayload(form Form, groups []group, folder, key string, now time.Time) Payload {
	var docs []PayloadDocument
	for _, g := range groups {
		for _, success := range g.outcome.Successes {
			item := g.items[success.Index]
			docs = append(docs, PayloadDocument{
				ItemID:       success.Result.ID,
				Filename:     success.Filename,
				FileType:     item.File.ContentType,
				DocType:      string(success.Category),
				Role:         success.Role,
				FileID:       success.Result.ID,
				WebURL:       success.Result.WebURL,
				DownloadURL:  success.Result.DownloadURL,
				FileSize:     success.Result.SizeBytes,
				LastModified: success.Result.LastModified,
				PageCount:    item.File.PageCount,
			})
		}
	}

	return Payload{
		Documents:     docs,
		DocumentType:  form.DocumentType,
		Timestamp:     now,
		TotalFiles:    len(docs),
		SessionFolder: folder,
		UserEmail:     form.Email,
		APIKey:        key,
		Key:           key,
	}
}

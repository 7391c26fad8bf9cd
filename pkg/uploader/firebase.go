package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

type firebaseBackend struct {
	bucket     *gcs.BucketHandle
	firestore  *firestore.Client
	collection string
	bucketName string
	logger     *slog.Logger
}

// NewFirebase creates a Backend that uploads to Firebase Storage and writes
// a companion metadata record into a Firestore collection.
func NewFirebase(ctx context.Context, cfg *FirebaseConfig, logger *slog.Logger) (Backend, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.Bucket,
	}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	store, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage client: %w", err)
	}

	bucket, err := store.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("firebase default bucket: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	return &firebaseBackend{
		bucket:     bucket,
		firestore:  fs,
		collection: cfg.Collection,
		bucketName: cfg.Bucket,
		logger:     logger.With("backend", "firebase"),
	}, nil
}

func (f *firebaseBackend) Name() string { return string(ProviderFirebase) }

func (f *firebaseBackend) Upload(ctx context.Context, file File, owner, destPath string) (*Result, error) {
	key := path.Join(destPath, file.Name)

	w := f.bucket.Object(key).NewWriter(ctx)
	w.ContentType = file.ContentType

	if _, err := w.Write(file.Data); err != nil {
		w.Close()
		return nil, &UploadError{Backend: f.Name(), Filename: file.Name, Message: err.Error()}
	}
	if err := w.Close(); err != nil {
		return nil, &UploadError{Backend: f.Name(), Filename: file.Name, Message: err.Error()}
	}

	attrs, err := f.bucket.Object(key).Attrs(ctx)
	if err != nil {
		return nil, &UploadError{Backend: f.Name(), Filename: file.Name, Message: err.Error()}
	}

	// Companion record mirrors what the storage object cannot carry: the
	// uploading identity and the user-supplied destination folder.
	_, _, err = f.firestore.Collection(f.collection).Add(ctx, map[string]any{
		"name":         file.Name,
		"path":         key,
		"contentType":  file.ContentType,
		"sizeBytes":    attrs.Size,
		"owner":        owner,
		"uploadedAt":   firestore.ServerTimestamp,
		"lastModified": attrs.Updated,
	})
	if err != nil {
		return nil, &UploadError{Backend: f.Name(), Filename: file.Name, Message: fmt.Sprintf("companion record: %v", err)}
	}

	f.logger.Info("file uploaded", "name", file.Name, "path", key)

	objectURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", f.bucketName, key)

	return &Result{
		ID:           key,
		WebURL:       objectURL,
		DownloadURL:  attrs.MediaLink,
		SizeBytes:    attrs.Size,
		LastModified: attrs.Updated,
	}, nil
}

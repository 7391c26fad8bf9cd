package uploader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/formworks/intake/pkg/formatting"
)

// Config holds upload backend selection, validation limits, and per-backend
// credentials. Only the selected provider's sub-config is validated.
type Config struct {
	Provider      string            `toml:"provider"`
	MaxFileSize   string            `toml:"max_file_size"`
	AcceptedTypes []string          `toml:"accepted_types"`
	OneDrive      OneDriveConfig    `toml:"onedrive"`
	GoogleDrive   GoogleDriveConfig `toml:"gdrive"`
	Firebase      FirebaseConfig    `toml:"firebase"`
	GCS           GCSConfig         `toml:"gcs"`
	Azure         AzureConfig       `toml:"azure"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider      string
	MaxFileSize   string
	AcceptedTypes string
	OneDrive      OneDriveEnv
	GoogleDrive   GoogleDriveEnv
	Firebase      FirebaseEnv
	GCS           GCSEnv
	Azure         AzureEnv
}

// MaxFileSizeBytes returns the configured ceiling as a byte count.
func (c *Config) MaxFileSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.AcceptedTypes != nil {
		c.AcceptedTypes = overlay.AcceptedTypes
	}
	c.OneDrive.merge(&overlay.OneDrive)
	c.GoogleDrive.merge(&overlay.GoogleDrive)
	c.Firebase.merge(&overlay.Firebase)
	c.GCS.merge(&overlay.GCS)
	c.Azure.merge(&overlay.Azure)
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = string(ProviderOneDrive)
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "10MB"
	}
	if len(c.AcceptedTypes) == 0 {
		c.AcceptedTypes = []string{"application/pdf"}
	}
	if c.Firebase.Collection == "" {
		c.Firebase.Collection = "uploads"
	}
	if c.GCS.SignedURLTTL == "" {
		c.GCS.SignedURLTTL = "336h"
	}
	if c.Azure.Container == "" {
		c.Azure.Container = "documents"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.MaxFileSize != "" {
		if v := os.Getenv(env.MaxFileSize); v != "" {
			c.MaxFileSize = v
		}
	}
	if env.AcceptedTypes != "" {
		if v := os.Getenv(env.AcceptedTypes); v != "" {
			types := strings.Split(v, ",")
			c.AcceptedTypes = make([]string, 0, len(types))
			for _, t := range types {
				if trimmed := strings.TrimSpace(t); trimmed != "" {
					c.AcceptedTypes = append(c.AcceptedTypes, trimmed)
				}
			}
		}
	}
	c.OneDrive.loadEnv(&env.OneDrive)
	c.GoogleDrive.loadEnv(&env.GoogleDrive)
	c.Firebase.loadEnv(&env.Firebase)
	c.GCS.loadEnv(&env.GCS)
	c.Azure.loadEnv(&env.Azure)
}

func (c *Config) validate() error {
	if _, err := formatting.ParseBytes(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}

	switch Provider(c.Provider) {
	case ProviderOneDrive:
		return c.OneDrive.validate()
	case ProviderGoogleDrive:
		return c.GoogleDrive.validate()
	case ProviderFirebase:
		return c.Firebase.validate()
	case ProviderGCS:
		return c.GCS.validate()
	case ProviderAzure:
		return c.Azure.validate()
	}
	return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
}

// OneDriveConfig holds Microsoft Graph client-credential parameters.
type OneDriveConfig struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// OneDriveEnv maps OneDrive config fields to environment variable names.
type OneDriveEnv struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

func (c *OneDriveConfig) merge(overlay *OneDriveConfig) {
	if overlay.TenantID != "" {
		c.TenantID = overlay.TenantID
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.ClientSecret != "" {
		c.ClientSecret = overlay.ClientSecret
	}
}

func (c *OneDriveConfig) loadEnv(env *OneDriveEnv) {
	if env.TenantID != "" {
		if v := os.Getenv(env.TenantID); v != "" {
			c.TenantID = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.ClientSecret != "" {
		if v := os.Getenv(env.ClientSecret); v != "" {
			c.ClientSecret = v
		}
	}
}

func (c *OneDriveConfig) validate() error {
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("onedrive: tenant_id, client_id, and client_secret required")
	}
	return nil
}

// GoogleDriveConfig holds Drive service account parameters.
type GoogleDriveConfig struct {
	CredentialsFile string `toml:"credentials_file"`
}

// GoogleDriveEnv maps Drive config fields to environment variable names.
type GoogleDriveEnv struct {
	CredentialsFile string
}

func (c *GoogleDriveConfig) merge(overlay *GoogleDriveConfig) {
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
}

func (c *GoogleDriveConfig) loadEnv(env *GoogleDriveEnv) {
	if env.CredentialsFile != "" {
		if v := os.Getenv(env.CredentialsFile); v != "" {
			c.CredentialsFile = v
		}
	}
}

func (c *GoogleDriveConfig) validate() error {
	if c.CredentialsFile == "" {
		return fmt.Errorf("gdrive: credentials_file required")
	}
	return nil
}

// FirebaseConfig holds Firebase Storage and Firestore parameters.
type FirebaseConfig struct {
	ProjectID       string `toml:"project_id"`
	Bucket          string `toml:"bucket"`
	CredentialsFile string `toml:"credentials_file"`
	Collection      string `toml:"collection"`
}

// FirebaseEnv maps Firebase config fields to environment variable names.
type FirebaseEnv struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
	Collection      string
}

func (c *FirebaseConfig) merge(overlay *FirebaseConfig) {
	if overlay.ProjectID != "" {
		c.ProjectID = overlay.ProjectID
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
	if overlay.Collection != "" {
		c.Collection = overlay.Collection
	}
}

func (c *FirebaseConfig) loadEnv(env *FirebaseEnv) {
	if env.ProjectID != "" {
		if v := os.Getenv(env.ProjectID); v != "" {
			c.ProjectID = v
		}
	}
	if env.Bucket != "" {
		if v := os.Getenv(env.Bucket); v != "" {
			c.Bucket = v
		}
	}
	if env.CredentialsFile != "" {
		if v := os.Getenv(env.CredentialsFile); v != "" {
			c.CredentialsFile = v
		}
	}
	if env.Collection != "" {
		if v := os.Getenv(env.Collection); v != "" {
			c.Collection = v
		}
	}
}

func (c *FirebaseConfig) validate() error {
	if c.ProjectID == "" || c.Bucket == "" || c.CredentialsFile == "" {
		return fmt.Errorf("firebase: project_id, bucket, and credentials_file required")
	}
	return nil
}

// GCSConfig holds Cloud Storage parameters.
type GCSConfig struct {
	Bucket          string `toml:"bucket"`
	CredentialsFile string `toml:"credentials_file"`
	SignedURLTTL    string `toml:"signed_url_ttl"`
}

// GCSEnv maps GCS config fields to environment variable names.
type GCSEnv struct {
	Bucket          string
	CredentialsFile string
	SignedURLTTL    string
}

// SignedURLTTLDuration returns SignedURLTTL as a time.Duration.
func (c *GCSConfig) SignedURLTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SignedURLTTL)
	return d
}

func (c *GCSConfig) merge(overlay *GCSConfig) {
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
	if overlay.SignedURLTTL != "" {
		c.SignedURLTTL = overlay.SignedURLTTL
	}
}

func (c *GCSConfig) loadEnv(env *GCSEnv) {
	if env.Bucket != "" {
		if v := os.Getenv(env.Bucket); v != "" {
			c.Bucket = v
		}
	}
	if env.CredentialsFile != "" {
		if v := os.Getenv(env.CredentialsFile); v != "" {
			c.CredentialsFile = v
		}
	}
	if env.SignedURLTTL != "" {
		if v := os.Getenv(env.SignedURLTTL); v != "" {
			c.SignedURLTTL = v
		}
	}
}

func (c *GCSConfig) validate() error {
	if c.Bucket == "" || c.CredentialsFile == "" {
		return fmt.Errorf("gcs: bucket and credentials_file required")
	}
	if _, err := time.ParseDuration(c.SignedURLTTL); err != nil {
		return fmt.Errorf("gcs: invalid signed_url_ttl: %w", err)
	}
	return nil
}

// AzureConfig holds Azure Blob Storage parameters.
type AzureConfig struct {
	ConnectionString string `toml:"connection_string"`
	Container        string `toml:"container"`
}

// AzureEnv maps Azure config fields to environment variable names.
type AzureEnv struct {
	ConnectionString string
	Container        string
}

func (c *AzureConfig) merge(overlay *AzureConfig) {
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.Container != "" {
		c.Container = overlay.Container
	}
}

func (c *AzureConfig) loadEnv(env *AzureEnv) {
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.Container != "" {
		if v := os.Getenv(env.Container); v != "" {
			c.Container = v
		}
	}
}

func (c *AzureConfig) validate() error {
	if c.ConnectionString == "" {
		return fmt.Errorf("azure: connection_string required")
	}
	return nil
}

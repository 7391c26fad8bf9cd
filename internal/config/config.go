package config

import (
	"fmt"
	"os"
	"time"

	"github.com/formworks/intake/pkg/database"
	"github.com/formworks/intake/pkg/uploader"
	"github.com/formworks/intake/pkg/webhook"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvIntakeEnv             = "INTAKE_ENV"
	EnvIntakeShutdownTimeout = "INTAKE_SHUTDOWN_TIMEOUT"
	EnvIntakeVersion         = "INTAKE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "INTAKE_DB_HOST",
	Port:            "INTAKE_DB_PORT",
	Name:            "INTAKE_DB_NAME",
	User:            "INTAKE_DB_USER",
	Password:        "INTAKE_DB_PASSWORD",
	SSLMode:         "INTAKE_DB_SSL_MODE",
	MaxOpenConns:    "INTAKE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "INTAKE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "INTAKE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "INTAKE_DB_CONN_TIMEOUT",
}

var webhookEnv = &webhook.Env{
	URL:     "INTAKE_WEBHOOK_URL",
	Key:     "INTAKE_WEBHOOK_KEY",
	Timeout: "INTAKE_WEBHOOK_TIMEOUT",
}

var uploadsEnv = &uploader.Env{
	Provider:      "INTAKE_UPLOADS_PROVIDER",
	MaxFileSize:   "INTAKE_UPLOADS_MAX_FILE_SIZE",
	AcceptedTypes: "INTAKE_UPLOADS_ACCEPTED_TYPES",
	OneDrive: uploader.OneDriveEnv{
		TenantID:     "INTAKE_ONEDRIVE_TENANT_ID",
		ClientID:     "INTAKE_ONEDRIVE_CLIENT_ID",
		ClientSecret: "INTAKE_ONEDRIVE_CLIENT_SECRET",
	},
	GoogleDrive: uploader.GoogleDriveEnv{
		CredentialsFile: "INTAKE_GDRIVE_CREDENTIALS_FILE",
	},
	Firebase: uploader.FirebaseEnv{
		ProjectID:       "INTAKE_FIREBASE_PROJECT_ID",
		Bucket:          "INTAKE_FIREBASE_BUCKET",
		CredentialsFile: "INTAKE_FIREBASE_CREDENTIALS_FILE",
		Collection:      "INTAKE_FIREBASE_COLLECTION",
	},
	GCS: uploader.GCSEnv{
		Bucket:          "INTAKE_GCS_BUCKET",
		CredentialsFile: "INTAKE_GCS_CREDENTIALS_FILE",
		SignedURLTTL:    "INTAKE_GCS_SIGNED_URL_TTL",
	},
	Azure: uploader.AzureEnv{
		ConnectionString: "INTAKE_AZURE_CONNECTION_STRING",
		Container:        "INTAKE_AZURE_CONTAINER",
	},
}

// Config is the root configuration for the intake service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Webhook         webhook.Config  `toml:"webhook"`
	Uploads         uploader.Config `toml:"uploads"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the INTAKE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvIntakeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Webhook.Merge(&overlay.Webhook)
	c.Uploads.Merge(&overlay.Uploads)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Webhook.Finalize(webhookEnv); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if err := c.Uploads.Finalize(uploadsEnv); err != nil {
		return fmt.Errorf("uploads: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvIntakeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvIntakeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvIntakeEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Config holds server configuration. It is assembled once at startup and
// passed explicitly to component constructors.
type Config struct {
	Port    int    // Port to listen on
	Secret  string // Secret key for JWT signing
	Env     string // Environment (development | production)
	BaseURL string // Base URL used when building public file links

	MaxFileSize       int64    // Per-file size cap in bytes
	AllowedExtensions []string // Lowercase extensions accepted for upload, e.g. ".jpg"

	Storage StorageConfig
}

// StorageConfig selects and configures the blob storage backend.
type StorageConfig struct {
	// Provider type ("local" or "gcs")
	Provider string `json:"provider"`

	// Local storage config: base directory under which per-owner roots live
	RootDir string `json:"root_dir,omitempty"`

	// GCS config
	ProjectID  string `json:"project_id,omitempty"`
	BucketName string `json:"bucket_name,omitempty"`
}

func (c *Config) Log() {
	log.Info().
		Int("port", c.Port).
		Str("env", c.Env).
		Str("base_url", c.BaseURL).
		Int64("max_file_size", c.MaxFileSize).
		Strs("allowed_extensions", c.AllowedExtensions).
		Str("storage_provider", c.Storage.Provider).
		Msg("server configuration")
}

// NewConfig creates a server configuration from environment variables
func NewConfig() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	secret := os.Getenv("SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SECRET is required")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "production"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost"
	}

	maxFileSizeStr := os.Getenv("MAX_FILE_SIZE")
	if maxFileSizeStr == "" {
		maxFileSizeStr = "10MB" // Default value
	}
	maxFileSize, err := parseSize(maxFileSizeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE: %w", err)
	}

	allowedExtensions := parseExtensions(os.Getenv("ALLOWED_EXTENSIONS"))

	storageProvider := os.Getenv("STORAGE_PROVIDER")
	if storageProvider == "" {
		storageProvider = "local"
	}

	storageConfig := StorageConfig{
		Provider:   storageProvider,
		RootDir:    os.Getenv("STORAGE_ROOT"),
		ProjectID:  os.Getenv("GCS_PROJECT_ID"),
		BucketName: os.Getenv("GCS_BUCKET_NAME"),
	}

	if err := validateStorageConfig(storageConfig); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}

	return &Config{
		Port:              port,
		Secret:            secret,
		Env:               env,
		BaseURL:           baseURL,
		MaxFileSize:       maxFileSize,
		AllowedExtensions: allowedExtensions,
		Storage:           storageConfig,
	}, nil
}

// validateStorageConfig ensures the storage configuration is valid
func validateStorageConfig(cfg StorageConfig) error {
	switch cfg.Provider {
	case "local":
		if cfg.RootDir == "" {
			return fmt.Errorf("STORAGE_ROOT is required for local storage")
		}
	case "gcs":
		if cfg.ProjectID == "" {
			return fmt.Errorf("GCS_PROJECT_ID is required for GCS storage")
		}
		if cfg.BucketName == "" {
			return fmt.Errorf("GCS_BUCKET_NAME is required for GCS storage")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
	return nil
}

// parseExtensions splits a comma-separated extension list, normalizing each
// entry to a lowercase ".ext" form. An empty value falls back to the default
// image allow-list.
func parseExtensions(raw string) []string {
	if raw == "" {
		return []string{".jpg", ".jpeg", ".png"}
	}

	var exts []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

// parseSize parses a size string such as "10MB" or "1GB". A bare number is
// interpreted as megabytes.
func parseSize(size string) (int64, error) {
	if strings.HasSuffix(size, "GB") {
		value, err := strconv.ParseInt(strings.TrimSuffix(size, "GB"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", size, err)
		}
		return value * 1024 * 1024 * 1024, nil
	} else if strings.HasSuffix(size, "MB") {
		value, err := strconv.ParseInt(strings.TrimSuffix(size, "MB"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", size, err)
		}
		return value * 1024 * 1024, nil
	} else {
		value, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", size, err)
		}
		return value * 1024 * 1024, nil
	}
}

// Package app holds the application configuration shared by all commands.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aymericcousaert/squads-cli/internal/cache"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// OutputFormat represents how command results are rendered.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatPlain OutputFormat = "plain"
)

// TokenStorageType represents the storage backends supported for the token cache.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// Default configuration values
const (
	DefaultConfigLogFormat    = LogFormatText
	DefaultConfigTenant       = "organizations"
	DefaultConfigAuthStorage  = TokenStorageTypeFile
	DefaultConfigAPIRegion    = "emea"
	DefaultConfigAPITimeout   = 30 * time.Second
	DefaultConfigOutputFormat = OutputFormatTable
)

// AuthConfig describes where the token cache lives and which tenant to
// authenticate against.
type AuthConfig struct {
	// Tenant is the Azure AD tenant ("organizations" for multi-tenant).
	Tenant string `json:"tenant" validate:"required"`

	// Storage selects the cache backend for tokens.
	Storage TokenStorageType `json:"storage" validate:"required,oneof=file keyring"`

	// Storage-specific settings (mutually exclusive based on Storage type)
	CacheDir    string `json:"cache_dir,omitempty"`    // For file storage: cache directory
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier
}

// NewCacheStore creates the token cache store from the authentication
// configuration.
func (a *AuthConfig) NewCacheStore() (cache.Store, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		return cache.NewFileStore(a.CacheDir)
	case TokenStorageTypeKeyring:
		return cache.NewKeyringStore("squads-cli", a.KeyringUser)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// APIConfig holds remote API behavior configuration.
type APIConfig struct {
	// Region selects the Teams service region.
	Region string `json:"region" validate:"oneof=emea amer apac"`

	// Timeout bounds every single HTTP request.
	Timeout time.Duration `json:"timeout"`
}

// OutputConfig holds result rendering configuration.
type OutputConfig struct {
	Format  OutputFormat `json:"format" validate:"oneof=table json plain"`
	NoColor bool         `json:"no_color"`
}

// TelemetryConfig holds optional log export configuration.
type TelemetryConfig struct {
	// OTLPEndpoint enables OpenTelemetry log export when set ("stdout" or a
	// collector host:port).
	OTLPEndpoint string `json:"otlp_endpoint,omitempty"`
	OTLPProtocol string `json:"otlp_protocol,omitempty" validate:"omitempty,oneof=http grpc"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level      `json:"log_level"`
	LogFormat LogFormat       `json:"log_format" validate:"oneof=text json"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Auth      AuthConfig      `json:"auth"`
	API       APIConfig       `json:"api"`
	Output    OutputConfig    `json:"output"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Auth.Tenant == "" {
		c.Auth.Tenant = DefaultConfigTenant
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.API.Region == "" {
		c.API.Region = DefaultConfigAPIRegion
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultConfigAPITimeout
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultConfigOutputFormat
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.CacheDir == "" {
			cacheDir, err := os.UserCacheDir()
			if err != nil {
				return fmt.Errorf("auth.cache_dir required (auto-detect failed: %w)", err)
			}
			c.Auth.CacheDir = filepath.Join(cacheDir, "squads-cli")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.CacheDir == "" {
			return errors.New("cache_dir required for file storage")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}

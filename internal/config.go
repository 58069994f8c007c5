package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeKey      = "key"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Catalog   CatalogConfig     `yaml:"catalog"`
	Profile   ProfileConfig     `yaml:"profile"`
	Extractor ExtractorConfig   `yaml:"extractor"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if err := c.Extractor.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig holds the SQLite catalog store configuration.
type CatalogConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SQLitePath, validation.Required),
	)
}

// ProfileConfig holds the path to the per-device personalization
// profile directory (favorites and notes).
type ProfileConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the profile configuration.
func (c *ProfileConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ExtractorConfig holds metadata extractor configuration.
type ExtractorConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
}

// Timeout returns the extractor HTTP timeout as a duration.
func (c *ExtractorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the extractor configuration.
func (c *ExtractorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.MaxBodyBytes, validation.Required, validation.Min(int64(1024))),
	)
}

// AuthConfig holds authentication configuration for the ingestion
// endpoints (submit and refresh).
//
// Mode controls how authorization is enforced:
//   - "disabled" (default): no admin key required, suitable for local dev.
//   - "key": requests must carry the shared admin key; AdminKey must be non-empty.
type AuthConfig struct {
	Mode     string `yaml:"mode"`
	AdminKey string `yaml:"admin_key"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeKey)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeKey && c.AdminKey == "" {
		return fmt.Errorf("auth: mode is %q but admin_key is empty", AuthModeKey)
	}
	return nil
}

// AuthEnabled returns true when authorization is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeKey
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			SQLitePath: "./niftynet.db",
		},
		Profile: ProfileConfig{
			Path: "./profile",
		},
		Extractor: ExtractorConfig{
			TimeoutSeconds: 10,
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 niftynet/1.0",
			MaxBodyBytes:   2 << 20,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

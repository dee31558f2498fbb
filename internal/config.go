package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeStatic   = "static"
	AuthModeRemote   = "remote"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Auth       AuthConfig        `yaml:"auth"`
	Media      MediaConfig       `yaml:"media"`
	Summarizer SummarizerConfig  `yaml:"summarizer"`
	SMTP       SMTPConfig        `yaml:"smtp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Media.Validate(); err != nil {
		return err
	}
	return c.SMTP.Validate()
}

// secrets are sensitive values supplied through the environment
// (INKWELL_MEDIA_API_KEY, INKWELL_SMTP_PASSWORD, ...) rather than the config
// file.
type secrets struct {
	MediaAPIKey     string `envconfig:"MEDIA_API_KEY"`
	MediaAPISecret  string `envconfig:"MEDIA_API_SECRET"`
	SummarizerToken string `envconfig:"SUMMARIZER_TOKEN"`
	SMTPPassword    string `envconfig:"SMTP_PASSWORD"`
	AuthToken       string `envconfig:"AUTH_TOKEN"`
}

// LoadSecrets overlays environment-provided secrets onto the config. Values
// already present in the file are only replaced when the variable is set.
func (c *Config) LoadSecrets() error {
	var s secrets
	if err := envconfig.Process("inkwell", &s); err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}
	if s.MediaAPIKey != "" {
		c.Media.APIKey = s.MediaAPIKey
	}
	if s.MediaAPISecret != "" {
		c.Media.APISecret = s.MediaAPISecret
	}
	if s.SummarizerToken != "" {
		c.Summarizer.Token = s.SummarizerToken
	}
	if s.SMTPPassword != "" {
		c.SMTP.Password = s.SMTPPassword
	}
	if s.AuthToken != "" {
		c.Auth.Token = s.AuthToken
	}
	return nil
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

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LocalUserConfig identifies the caller used when auth is disabled and by the
// MCP server, which has no bearer credential of its own.
type LocalUserConfig struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how bearer credentials are resolved:
//   - "disabled" (default): every request acts as LocalUser; local dev only.
//   - "static": a single configured token maps to LocalUser.
//   - "remote": tokens are resolved by the external auth service at VerifyURL.
type AuthConfig struct {
	Mode      string          `yaml:"mode"`
	Token     string          `yaml:"token"`
	VerifyURL string          `yaml:"verify_url"`
	LocalUser LocalUserConfig `yaml:"local_user"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled".
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required,
			validation.In(AuthModeDisabled, AuthModeStatic, AuthModeRemote)),
	); err != nil {
		return err
	}
	switch c.Mode {
	case AuthModeStatic:
		if c.Token == "" {
			return fmt.Errorf("auth: mode is %q but token is empty", AuthModeStatic)
		}
		fallthrough
	case AuthModeDisabled:
		if c.LocalUser.ID == "" {
			return fmt.Errorf("auth: mode is %q but local_user.id is empty", c.Mode)
		}
	case AuthModeRemote:
		if c.VerifyURL == "" {
			return fmt.Errorf("auth: mode is %q but verify_url is empty", AuthModeRemote)
		}
	}
	return nil
}

// MediaConfig holds remote media host configuration.
type MediaConfig struct {
	BaseURL        string `yaml:"base_url"`
	CloudName      string `yaml:"cloud_name"`
	Folder         string `yaml:"folder"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKey         string `yaml:"api_key"`
	APISecret      string `yaml:"api_secret"`
}

// Validate validates the media configuration.
func (c *MediaConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.CloudName, validation.Required),
		validation.Field(&c.MaxUploadBytes, validation.Min(1)),
		validation.Field(&c.TimeoutSeconds, validation.Min(1)),
	)
}

// SummarizerConfig holds the optional remote summarization backend
// configuration. An empty token degrades gracefully to fallback-only
// summaries.
type SummarizerConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Enabled reports whether the remote backend should be used.
func (c *SummarizerConfig) Enabled() bool {
	return c.Token != "" && c.Endpoint != "" && c.Model != ""
}

// SMTPConfig holds the email notifier configuration. An empty host disables
// notifications.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Enabled reports whether email notifications are active.
func (c *SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Validate validates the SMTP configuration.
func (c *SMTPConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
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
		SQLite: SQLiteConfig{
			Path: "./inkwell.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
			LocalUser: LocalUserConfig{
				ID:    "local",
				Email: "",
			},
		},
		Media: MediaConfig{
			BaseURL:        "https://api.mediastash.io",
			CloudName:      "inkwell-dev",
			Folder:         "notes_app",
			MaxUploadBytes: 10 << 20,
			TimeoutSeconds: 30,
		},
		Summarizer: SummarizerConfig{
			Endpoint:       "https://api-inference.huggingface.co",
			Model:          "facebook/bart-large-cnn",
			TimeoutSeconds: 30,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

package internal

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Anthropic AnthropicConfig   `yaml:"anthropic"`
	Output    OutputConfig      `yaml:"output"`
	Inbox     InboxConfig       `yaml:"inbox"`
	History   HistoryConfig     `yaml:"history"`
	Drive     DriveConfig       `yaml:"drive"`
	Notion    NotionConfig      `yaml:"notion"`
	Notify    NotifyConfig      `yaml:"notify"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration. Credentials for optional
// integrations (Drive, Notion, webhook) are not validated here; the
// components that need them fail at construction when they are missing.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.History.Validate(); err != nil {
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

// AnthropicConfig holds the generative model settings. The API key
// falls back to the ANTHROPIC_API_KEY environment variable.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OutputConfig holds local output settings.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Timestamped bool   `yaml:"timestamped"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// InboxConfig holds the local watch directory.
type InboxConfig struct {
	Dir string `yaml:"dir"`
}

// HistoryConfig holds the SQLite run-ledger location.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// DriveConfig holds the Google Drive integration settings. Empty folder
// IDs leave the batch stages disabled.
type DriveConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	InputFolder     string `yaml:"input_folder"`
	OutputFolder    string `yaml:"output_folder"`
	ApprovedFolder  string `yaml:"approved_folder"`
	PostedFolder    string `yaml:"posted_folder"`
}

// Enabled reports whether the Drive integration is configured.
func (c *DriveConfig) Enabled() bool {
	return c.InputFolder != "" && c.OutputFolder != ""
}

// NotionConfig holds the Notion integration settings. The token falls
// back to the NOTION_TOKEN environment variable.
type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
}

// Enabled reports whether the Notion integration is configured.
func (c *NotionConfig) Enabled() bool {
	return c.Token != "" && c.DatabaseID != ""
}

// NotifyConfig holds the webhook notifier settings. An empty URL
// disables notifications.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values,
// overlaying credentials from the environment.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Anthropic: AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		Output: OutputConfig{
			Dir:         "./output",
			Timestamped: true,
		},
		Inbox: InboxConfig{
			Dir: "./inbox",
		},
		History: HistoryConfig{
			Path: "./echome.db",
		},
		Drive: DriveConfig{
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			InputFolder:     os.Getenv("DRIVE_INPUT_FOLDER_ID"),
			OutputFolder:    os.Getenv("DRIVE_OUTPUT_FOLDER_ID"),
			ApprovedFolder:  os.Getenv("DRIVE_APPROVED_FOLDER_ID"),
			PostedFolder:    os.Getenv("DRIVE_POSTED_FOLDER_ID"),
		},
		Notion: NotionConfig{
			Token:      os.Getenv("NOTION_TOKEN"),
			DatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

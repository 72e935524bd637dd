package internal

import (
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/linkblog/internal/drafts"
)

// AppName names the per-user config and state directories.
const AppName = "linkblog"

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Categories CategoriesConfig  `yaml:"categories"`
	Drafts     DraftsConfig      `yaml:"drafts"`
	Log        LogConfig         `yaml:"log"`
	Auth       AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Categories.Validate(); err != nil {
		return err
	}
	if err := c.Drafts.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
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

// HTTPConfig holds the serve mode listener.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CategoriesConfig locates the categories file.
type CategoriesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the categories configuration.
func (c *CategoriesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// DraftsConfig tells where drafts live and which of them take links.
type DraftsConfig struct {
	Dir         string `yaml:"dir"`
	Category    string `yaml:"category"`
	DefaultFile string `yaml:"default_file"`
}

// Validate validates the drafts configuration.
func (c *DraftsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Category, validation.Required),
		validation.Field(&c.DefaultFile, validation.Required),
	)
}

// Drafts converts the section into the drafts package's lookup config.
func (c *DraftsConfig) Drafts() drafts.Config {
	return drafts.Config{Dir: c.Dir, Category: c.Category, DefaultFile: c.DefaultFile}
}

// LogConfig locates the diagnostic log of the dialog mode.
type LogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
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

// NewDefaultConfig returns a Config with per-user default paths.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 8765,
			},
		},
		Categories: CategoriesConfig{
			Path: filepath.Join(xdg.ConfigHome, AppName, "categories.json"),
		},
		Drafts: DraftsConfig{
			Dir:         "_drafts",
			Category:    "Curated Insights",
			DefaultFile: "linkblog.md",
		},
		Log: LogConfig{
			Path: filepath.Join(xdg.StateHome, AppName, "errors.log"),
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

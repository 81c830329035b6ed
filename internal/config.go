package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/recurrence"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Holiday sources.
const (
	HolidaySourceStatic = "static"
	HolidaySourceNager  = "nager"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Calendar CalendarConfig    `yaml:"calendar"`
	Holidays HolidayConfig     `yaml:"holidays"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.Holidays.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
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

// CalendarConfig holds the calendar domain configuration.
type CalendarConfig struct {
	Timezone   string                 `yaml:"timezone"`
	Categories []models.EventCategory `yaml:"categories"`
	Recurrence RecurrenceConfig       `yaml:"recurrence"`
}

// Validate validates the calendar configuration.
func (c *CalendarConfig) Validate() error {
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("calendar: bad timezone %q: %w", c.Timezone, err)
		}
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("calendar: at least one category is required")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" || cat.Name == "" {
			return fmt.Errorf("calendar: category needs both id and name")
		}
		if seen[cat.ID] {
			return fmt.Errorf("calendar: duplicate category id %q", cat.ID)
		}
		seen[cat.ID] = true
	}
	return c.Recurrence.Validate()
}

// Location resolves the configured timezone, defaulting to the host zone.
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// RecurrenceConfig bounds recurrence expansion.
type RecurrenceConfig struct {
	HorizonYears int `yaml:"horizon_years"`
	MaxInstances int `yaml:"max_instances"`
}

// Validate validates the recurrence configuration.
func (c *RecurrenceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HorizonYears, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxInstances, validation.Required, validation.Min(2)),
	)
}

// HolidayConfig selects and configures the holiday source.
//
// Source controls where holidays come from:
//   - "static" (default): the entries listed under Static.
//   - "nager": the Nager.Date public holiday API; Country must be set.
type HolidayConfig struct {
	Source  string           `yaml:"source"`
	Country string           `yaml:"country"`
	Static  []models.Holiday `yaml:"static"`
}

// Validate validates the holiday configuration.
func (c *HolidayConfig) Validate() error {
	if c.Source == "" {
		c.Source = HolidaySourceStatic
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.In(HolidaySourceStatic, HolidaySourceNager)),
	); err != nil {
		return err
	}
	if c.Source == HolidaySourceNager && c.Country == "" {
		return fmt.Errorf("holidays: source is %q but country is empty", HolidaySourceNager)
	}
	return nil
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

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Calendar: CalendarConfig{
			Categories: []models.EventCategory{
				{ID: "work", Name: "Work", Color: "#3b82f6", Visible: true},
				{ID: "personal", Name: "Personal", Color: "#22c55e", Visible: true},
			},
			Recurrence: RecurrenceConfig{
				HorizonYears: recurrence.DefaultHorizonYears,
				MaxInstances: recurrence.DefaultMaxInstances,
			},
		},
		Holidays: HolidayConfig{
			Source: HolidaySourceStatic,
		},
		SQLite: SQLiteConfig{
			Path: "./dagaz.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

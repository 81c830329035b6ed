package internal

import "github.com/starford/dagaz/internal/holiday"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	holidays holiday.Provider

	mcpMode        bool
	importPath     string
	importCategory string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithHolidayProvider overrides the holiday source selected by the
// configuration. Used by tests and embedders.
func WithHolidayProvider(p holiday.Provider) Option {
	return func(a *application) {
		a.holidays = p
	}
}

// WithMCPMode makes Run serve MCP tools over stdio instead of HTTP.
func WithMCPMode(enabled bool) Option {
	return func(a *application) {
		a.mcpMode = enabled
	}
}

// WithImport makes Run import the given ICS file into the named category
// and exit instead of serving.
func WithImport(path, categoryID string) Option {
	return func(a *application) {
		a.importPath = path
		a.importCategory = categoryID
	}
}

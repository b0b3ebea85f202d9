package driving

import "github.com/custodia-labs/ebookctl/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling defaults for unset keys.
	Get() (*domain.AppSettings, error)

	// Set validates and stores one setting by its dotted key.
	Set(key, value string) error

	// Value returns the effective value of a setting as text.
	Value(key string) (string, error)

	// Keys lists the recognised setting keys.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}

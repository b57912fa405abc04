package driving

import "github.com/custodia-labs/pdfcompare/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings merged with defaults and environment.
	Get() (*domain.AppSettings, error)

	// Set stores a single setting by its dotted key.
	Set(key, value string) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// Values returns every setting as display text with secrets redacted.
	Values() (map[string]string, error)

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}

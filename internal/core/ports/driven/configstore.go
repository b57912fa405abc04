package driven

import "time"

// ConfigStore holds persisted settings under flattened dot keys such as
// "ocr.dpi" or "mistral.api_key". Typed getters return the zero value when
// a key is missing or holds an incompatible type.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetDuration reads Go duration text ("90s", "5m").
	GetDuration(key string) time.Duration

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Path returns where the configuration is persisted.
	Path() string
}

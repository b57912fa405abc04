package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyExamplesDir     = "examples.dir"
	keyCacheDir        = "cache.dir"
	keyCacheManifest   = "cache.manifest"
	keyOCRLanguage     = "ocr.language"
	keyOCRDPI          = "ocr.dpi"
	keyOCRMaxPages     = "ocr.max_pages"
	keyOCRTessdataDir  = "ocr.tessdata_dir"
	keyOCRPdftoppm     = "ocr.pdftoppm"
	keyDoclingURL      = "docling.url"
	keyDoclingInsecure = "docling.insecure_skip_verify"
	keyDoclingCAFile   = "docling.ca_file"
	keyMistralAPIKey   = "mistral.api_key"
	keyMistralBaseURL  = "mistral.base_url"
	keyMistralModel    = "mistral.model"
	keyTimeoutMethod   = "timeouts.method"
	keyTimeoutCloud    = "timeouts.cloud"
)

// Environment overrides.
const (
	envMistralAPIKey = "MISTRAL_API_KEY"
	envDoclingURL    = "DOCLING_URL"
)

const (
	maxDPI                = 1200
	redactedSecretPreview = 4
)

// valueKind describes how a setting is parsed from text.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindDuration
)

// settingKinds lists every recognised key.
var settingKinds = map[string]valueKind{
	keyExamplesDir:     kindString,
	keyCacheDir:        kindString,
	keyCacheManifest:   kindBool,
	keyOCRLanguage:     kindString,
	keyOCRDPI:          kindInt,
	keyOCRMaxPages:     kindInt,
	keyOCRTessdataDir:  kindString,
	keyOCRPdftoppm:     kindString,
	keyDoclingURL:      kindString,
	keyDoclingInsecure: kindBool,
	keyDoclingCAFile:   kindString,
	keyMistralAPIKey:   kindString,
	keyMistralBaseURL:  kindString,
	keyMistralModel:    kindString,
	keyTimeoutMethod:   kindDuration,
	keyTimeoutCloud:    kindDuration,
}

// SettingsService manages application settings.
// Values come from the config store, fall back to defaults, and are
// overridden by MISTRAL_API_KEY and DOCLING_URL when set.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Examples: domain.ExampleSettings{
			Dir: s.getString(keyExamplesDir, defaults.Examples.Dir),
		},
		Cache: domain.CacheSettings{
			Dir:      s.getString(keyCacheDir, defaults.Cache.Dir),
			Manifest: s.getBool(keyCacheManifest, defaults.Cache.Manifest),
		},
		OCR: domain.OCRSettings{
			Language:    s.getString(keyOCRLanguage, defaults.OCR.Language),
			DPI:         s.getInt(keyOCRDPI, defaults.OCR.DPI),
			MaxPages:    s.getInt(keyOCRMaxPages, defaults.OCR.MaxPages),
			TessdataDir: s.configStore.GetString(keyOCRTessdataDir),
			Pdftoppm:    s.getString(keyOCRPdftoppm, defaults.OCR.Pdftoppm),
		},
		Docling: domain.DoclingSettings{
			URL:                s.getString(keyDoclingURL, defaults.Docling.URL),
			InsecureSkipVerify: s.getBool(keyDoclingInsecure, defaults.Docling.InsecureSkipVerify),
			CAFile:             s.configStore.GetString(keyDoclingCAFile),
		},
		Mistral: domain.MistralSettings{
			APIKey:  s.configStore.GetString(keyMistralAPIKey),
			BaseURL: s.getString(keyMistralBaseURL, defaults.Mistral.BaseURL),
			Model:   s.getString(keyMistralModel, defaults.Mistral.Model),
		},
		Timeouts: domain.TimeoutSettings{
			Method: s.getDuration(keyTimeoutMethod, defaults.Timeouts.Method),
			Cloud:  s.getDuration(keyTimeoutCloud, defaults.Timeouts.Cloud),
		},
	}

	if v := strings.TrimSpace(s.getenv(envMistralAPIKey)); v != "" {
		settings.Mistral.APIKey = v
	}
	if v := strings.TrimSpace(s.getenv(envDoclingURL)); v != "" {
		settings.Docling.URL = v
	}

	return settings, nil
}

// Set parses value according to the key's type, validates it and persists it.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(key, kind, strings.TrimSpace(value))
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func parseSetting(key string, kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		if key == keyOCRDPI && (n < 72 || n > maxDPI) {
			return nil, fmt.Errorf("%w: %s must be between 72 and %d", domain.ErrInvalidInput, key, maxDPI)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive duration such as 90s or 5m", domain.ErrInvalidInput, key)
		}
		return d.String(), nil
	default:
		if (key == keyDoclingURL || key == keyMistralBaseURL) && value != "" &&
			!strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return nil, fmt.Errorf("%w: %s must start with http:// or https://", domain.ErrInvalidInput, key)
		}
		return value, nil
	}
}

// Keys returns the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns every setting as display text, with the API key redacted.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		keyExamplesDir:     settings.Examples.Dir,
		keyCacheDir:        settings.Cache.Dir,
		keyCacheManifest:   strconv.FormatBool(settings.Cache.Manifest),
		keyOCRLanguage:     settings.OCR.Language,
		keyOCRDPI:          strconv.Itoa(settings.OCR.DPI),
		keyOCRMaxPages:     strconv.Itoa(settings.OCR.MaxPages),
		keyOCRTessdataDir:  settings.OCR.TessdataDir,
		keyOCRPdftoppm:     settings.OCR.Pdftoppm,
		keyDoclingURL:      settings.Docling.URL,
		keyDoclingInsecure: strconv.FormatBool(settings.Docling.InsecureSkipVerify),
		keyDoclingCAFile:   settings.Docling.CAFile,
		keyMistralAPIKey:   redact(settings.Mistral.APIKey),
		keyMistralBaseURL:  settings.Mistral.BaseURL,
		keyMistralModel:    settings.Mistral.Model,
		keyTimeoutMethod:   settings.Timeouts.Method.String(),
		keyTimeoutCloud:    settings.Timeouts.Cloud.String(),
	}, nil
}

// redact keeps only the last few characters of a secret.
func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= redactedSecretPreview {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-redactedSecretPreview:]
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d := s.configStore.GetDuration(key)
	if d <= 0 {
		return defaultVal
	}
	return d
}

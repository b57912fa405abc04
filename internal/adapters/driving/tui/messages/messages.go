// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSources lists example documents and the upload entry.
	ViewSources ViewType = iota
	// ViewUpload is the file path prompt.
	ViewUpload
	// ViewCompare shows progress and then the result tabs.
	ViewCompare
	// ViewSettings shows the effective configuration.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSources:
		return "sources"
	case ViewUpload:
		return "upload"
	case ViewCompare:
		return "compare"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ExamplesLoaded carries the example catalog from the service.
type ExamplesLoaded struct {
	Examples []domain.Example
	Err      error
}

// ExamplesChanged signals the example directory was modified.
type ExamplesChanged struct{}

// ExampleSelected asks for an example to be compared.
type ExampleSelected struct {
	Example domain.Example
}

// UploadSubmitted asks for a local file to be compared.
type UploadSubmitted struct {
	Path string
}

// DocumentLoaded carries a resolved document, or a message when it could
// not be read.
type DocumentLoaded struct {
	Document domain.Document
	Message  string
	Err      error
}

// ComparisonCompleted carries the finished result set.
type ComparisonCompleted struct {
	Set *domain.ResultSet
	Err error
}

// ActionCompleted reports the outcome of a copy or open action.
type ActionCompleted struct {
	Message string
	Err     error
}

// SettingsLoaded carries the displayable settings.
type SettingsLoaded struct {
	Values map[string]string
	Path   string
	Err    error
}

// SettingsSaved signals a setting was stored.
type SettingsSaved struct {
	Key string
	Err error
}

package domain

import (
	"errors"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a document with no content.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrExampleNotFound indicates a bundled example file is missing on disk.
	ErrExampleNotFound = errors.New("example file not found")

	// ErrUnsupportedMethod indicates an unknown extraction method.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrIncompleteResultSet indicates a result set is missing one or more methods.
	// Result sets are only ever published complete.
	ErrIncompleteResultSet = errors.New("incomplete result set")

	// ErrToolNotFound indicates a required external binary is not installed.
	ErrToolNotFound = errors.New("tool not found")

	// ErrCredentialMissing indicates a method needs an API credential that is not configured.
	ErrCredentialMissing = errors.New("credential missing")
)

// MissingInputMessage returns the user-facing notice for errors that mean
// the requested document could not be read. ok is false for other errors.
func MissingInputMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, ErrExampleNotFound):
		return notice("Example file not found", err, ErrExampleNotFound), true
	case errors.Is(err, ErrNotFound):
		return notice("File not found", err, ErrNotFound), true
	case errors.Is(err, ErrEmptyDocument):
		return notice("Document is empty", err, ErrEmptyDocument), true
	default:
		return "", false
	}
}

// notice appends what the wrapped error names after the sentinel, usually a
// path. A bare sentinel yields the title alone.
func notice(title string, err, sentinel error) string {
	d := strings.TrimPrefix(err.Error(), sentinel.Error())
	d = strings.TrimPrefix(d, ": ")
	if d == "" {
		return title
	}
	return title + ": " + d
}

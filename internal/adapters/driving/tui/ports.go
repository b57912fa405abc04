// Package tui provides an interactive terminal user interface for pdfcompare.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Comparison runs every method over a document.
	Comparison driving.ComparisonService

	// Document resolves examples and uploads.
	Document driving.DocumentService

	// ResultAction copies results and opens originals. Optional.
	ResultAction driving.ResultActionService

	// Settings exposes the effective configuration. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	comparison driving.ComparisonService,
	document driving.DocumentService,
	resultAction driving.ResultActionService,
) *Ports {
	return &Ports{
		Comparison:   comparison,
		Document:     document,
		ResultAction: resultAction,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Comparison == nil {
		return ErrMissingComparisonService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

package mcp

import (
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Comparison runs the extraction methods.
	Comparison driving.ComparisonService

	// Document resolves examples and uploaded files.
	Document driving.DocumentService

	// Cache lists cached results. Optional.
	Cache driving.CacheService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Comparison == nil {
		return ErrMissingComparisonService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

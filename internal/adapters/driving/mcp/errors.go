// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfcompare.
// It lets AI assistants run the extraction methods over a PDF and read the results.
package mcp

import "errors"

var (
	// ErrMissingComparisonService is returned when the comparison service is not provided.
	ErrMissingComparisonService = errors.New("mcp: comparison service is required")

	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// ErrNoSource is returned when a tool call names neither an example nor a path.
	ErrNoSource = errors.New("mcp: either example or path is required")
)

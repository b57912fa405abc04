// Package domain defines the core business entities for pdfcompare.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A PDF supplied by upload or picked from the bundled examples
//   - Method: One of the fixed extraction methods being compared
//   - ExtractionResult: The text one method produced for one document
//   - ResultSet: The complete, immutable collection of results for one document
//   - CacheEntry: A persisted extraction result for a bundled example
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

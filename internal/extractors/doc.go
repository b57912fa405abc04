// Package extractors provides implementations of the Extractor interface,
// one sub-package per extraction method. Each extractor wraps a single
// library, binary or remote service and knows nothing about caching.
//
// Extractors are assembled into the comparison service at startup.
package extractors

package driven

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// Extractor wraps one third-party extraction library or service
// behind a uniform bytes-in, text-out contract.
type Extractor interface {
	// Method returns the method this extractor implements.
	Method() domain.Method

	// Version returns a tag identifying the engine that produces output.
	// Cache entries written under a different tag are recomputed.
	Version() string

	// Extract converts a PDF to text or markdown.
	// Implementations must not retain the content slice.
	Extract(ctx context.Context, content []byte) (string, error)
}

// CommandRunner executes external binaries. Stubbed in tests.
type CommandRunner interface {
	// Run executes name with args and returns stdout.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Configurable is implemented by extractors that can run in a degraded mode
// when a credential is missing. Degraded output is never cached.
type Configurable interface {
	Configured() bool
}

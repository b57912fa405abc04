package extractors

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure ExecRunner implements the interface.
var _ driven.CommandRunner = ExecRunner{}

// maxStderr caps how much stderr is kept in error messages.
const maxStderr = 8 << 10

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args, honouring ctx cancellation.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Warn("exec %s %s failed after %s: %v", name, strings.Join(args, " "), dur, err)
		return out.Bytes(), fmt.Errorf("%s: %w: %s", name, err, truncate(errb.String(), maxStderr))
	}

	logger.Debug("exec %s ok in %s (%d bytes)", name, dur, out.Len())
	return out.Bytes(), nil
}

// LookPath reports whether a binary is available.
func LookPath(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}

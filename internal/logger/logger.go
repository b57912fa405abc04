// Package logger provides verbose logging for pdfcompare.
// When verbose mode is enabled via the --verbose flag, progress messages
// for each extraction method are printed to stderr so users can follow
// what a comparison run is doing and where its time goes.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes a prefixed line when verbose is on.
// Extraction methods log from concurrent goroutines, so writes take the write lock.
func logf(level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("WARN", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed logs the start of an operation and returns a function that logs
// its completion with the elapsed time.
//
//	done := logger.Timed("tesseract", "Ocr.pdf")
//	defer done()
func Timed(op, subject string) func() {
	start := time.Now()
	Debug("%s: started (%s)", op, subject)
	return func() {
		Debug("%s: finished in %s (%s)", op, time.Since(start).Round(time.Millisecond), subject)
	}
}

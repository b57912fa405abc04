package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides desktop actions on results.
type ResultActionService struct {
	goos     string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
	run      func(*exec.Cmd) error
	tempDir  string
}

// NewResultActionService creates a new result action service.
func NewResultActionService() *ResultActionService {
	return &ResultActionService{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
		run:      func(cmd *exec.Cmd) error { return cmd.Run() },
		tempDir:  os.TempDir(),
	}
}

// CopyToClipboard copies the result's text to the system clipboard.
func (s *ResultActionService) CopyToClipboard(_ context.Context, result domain.ExtractionResult) error {
	cmd, err := s.clipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(result.Text)
	return s.run(cmd)
}

// OpenDocument opens the document in the default PDF viewer. Documents
// without a path on disk are written to a temporary file first.
func (s *ResultActionService) OpenDocument(_ context.Context, doc domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	path := doc.Path
	if path == "" {
		var err error
		path, err = s.spill(doc)
		if err != nil {
			return err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	logger.Debug("opening %s", abs)
	return s.openPath(abs)
}

// spill writes an in-memory document to a temporary PDF file.
func (s *ResultActionService) spill(doc domain.Document) (string, error) {
	f, err := os.CreateTemp(s.tempDir, "pdfcompare-*-"+filepath.Base(doc.Name))
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(doc.Content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), nil
}

// openPath opens a file using the platform's default handler.
func (s *ResultActionService) openPath(path string) error {
	var cmd *exec.Cmd

	switch s.goos {
	case osDarwin:
		cmd = exec.Command("open", path)
	case osLinux:
		cmd = exec.Command("xdg-open", path)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", s.goos)
	}

	return s.start(cmd)
}

// clipboardCommand returns the OS-specific clipboard writer.
func (s *ResultActionService) clipboardCommand() (*exec.Cmd, error) {
	switch s.goos {
	case osDarwin:
		return exec.Command("pbcopy"), nil
	case osLinux:
		// Try xclip first, fall back to xsel
		if _, err := s.lookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := s.lookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
		return nil, fmt.Errorf("%w: no clipboard utility found (install xclip or xsel)", domain.ErrToolNotFound)
	case osWindows:
		return exec.Command("cmd", "/c", "clip"), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// Services used by the commands.
var (
	comparisonService driving.ComparisonService
	documentService   driving.DocumentService
	cacheService      driving.CacheService
	settingsService   driving.SettingsService
	actionService     driving.ResultActionService
)

// Services bundles the driving ports the CLI dispatches to.
type Services struct {
	Comparison driving.ComparisonService
	Document   driving.DocumentService
	Cache      driving.CacheService
	Settings   driving.SettingsService
	Actions    driving.ResultActionService
}

// Options are the global flag values passed to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// BootstrapFunc builds the services once global flags are parsed.
// The returned cleanup runs after the command finishes.
type BootstrapFunc func(opts Options) (*Services, func(), error)

var (
	bootstrap BootstrapFunc
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "pdfcompare",
	Short: "Compare PDF text extraction methods side by side",
	Long: `pdfcompare runs several text extraction methods over one PDF and shows
their output next to the original document.

Methods:
  tesseract - local OCR of rasterised pages
  docling   - document-structure conversion (docling-serve)
  pdftext   - layout-aware text layer to markdown
  mistral   - cloud OCR (requires MISTRAL_API_KEY)

Results for the bundled examples are cached on disk.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.pdfcompare)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices installs the services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	comparisonService = s.Comparison
	documentService = s.Document
	cacheService = s.Cache
	settingsService = s.Settings
	actionService = s.Actions
}

// SetBootstrap registers the function that builds services after flag parsing.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context that cancels
// in-flight comparisons.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || comparisonService != nil {
		return nil
	}

	services, done, err := bootstrap(Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	cleanup = done
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	filecache "github.com/custodia-labs/pdfcompare/internal/adapters/driven/cache/file"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/examples"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/core/services"
	"github.com/custodia-labs/pdfcompare/internal/extractors/docling"
	"github.com/custodia-labs/pdfcompare/internal/extractors/mistral"
	"github.com/custodia-labs/pdfcompare/internal/extractors/pdftext"
	"github.com/custodia-labs/pdfcompare/internal/extractors/tesseract"
	"github.com/custodia-labs/pdfcompare/internal/extractors/tesseract/engine"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// resultSetCapacity bounds how many completed comparisons the web UI keeps.
const resultSetCapacity = 16

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services from the persisted settings.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	logger.Debug("config loaded from %s", configStore.Path())

	var closers []func() error

	var manifest driven.CacheManifest
	if settings.Cache.Manifest {
		store, err := sqlite.NewStore(settings.Cache.Dir)
		if err != nil {
			logger.Warn("cache manifest disabled: %v", err)
		} else {
			manifest = store.CacheManifest()
			closers = append(closers, store.Close)
		}
	}
	cache := filecache.New(settings.Cache.Dir, manifest)

	extractors, err := buildExtractors(settings)
	if err != nil {
		closeAll(closers)
		return nil, nil, err
	}

	comparison, err := services.NewComparisonService(
		extractors,
		cache,
		memory.NewResultSetStore(resultSetCapacity),
		settings.Timeouts,
	)
	if err != nil {
		closeAll(closers)
		return nil, nil, fmt.Errorf("creating comparison service: %w", err)
	}

	catalog := examples.New(settings.Examples.Dir)
	closers = append(closers, catalog.Close)

	return &cli.Services{
		Comparison: comparison,
		Document:   services.NewDocumentService(catalog),
		Cache:      services.NewCacheService(cache),
		Settings:   settingsService,
		Actions:    services.NewResultActionService(),
	}, func() { closeAll(closers) }, nil
}

func buildExtractors(settings *domain.AppSettings) ([]driven.Extractor, error) {
	ocr := engine.New(engine.Config{
		Languages:   splitLanguages(settings.OCR.Language),
		TessdataDir: settings.OCR.TessdataDir,
	})

	conv, err := docling.New(docling.Config{
		BaseURL: settings.Docling.URL,
		Timeout: settings.Timeouts.Cloud,
		Trust: docling.TrustConfig{
			InsecureSkipVerify: settings.Docling.InsecureSkipVerify,
			CAFile:             expandHome(settings.Docling.CAFile),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("configuring docling: %w", err)
	}

	return []driven.Extractor{
		tesseract.New(tesseract.Config{
			Pdftoppm: settings.OCR.Pdftoppm,
			DPI:      settings.OCR.DPI,
			MaxPages: settings.OCR.MaxPages,
		}, ocr),
		conv,
		pdftext.New(),
		mistral.New(mistral.Config{
			APIKey:  settings.Mistral.APIKey,
			BaseURL: settings.Mistral.BaseURL,
			Model:   settings.Mistral.Model,
			Timeout: settings.Timeouts.Cloud,
		}),
	}, nil
}

// splitLanguages accepts tesseract's "eng+deu" form as well as commas.
func splitLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' })
	langs := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			langs = append(langs, f)
		}
	}
	return langs
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func closeAll(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("cleanup: %v", err)
		}
	}
}

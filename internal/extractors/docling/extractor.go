// Package docling provides the structure-converter method backed by a
// docling-serve instance.
package docling

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/extractors"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:5001"
	DefaultTimeout = 5 * time.Minute
	convertPath    = "/v1/convert/file"
	maxErrorBody   = 2 << 10
)

// TrustConfig controls certificate verification for the converter's
// transport only. Nothing here touches process-wide TLS settings.
type TrustConfig struct {
	// InsecureSkipVerify disables certificate verification.
	InsecureSkipVerify bool

	// CAFile is an extra PEM bundle to trust.
	CAFile string
}

// Config holds configuration for the docling adapter.
type Config struct {
	// BaseURL is the docling-serve base URL (default: http://localhost:5001).
	BaseURL string

	// Timeout is the request timeout (default: 5m).
	Timeout time.Duration

	// Trust configures the TLS transport.
	Trust TrustConfig
}

// Extractor converts documents through docling-serve.
type Extractor struct {
	client  *http.Client
	baseURL string
}

// convertResponse is the docling-serve /v1/convert/file response format.
type convertResponse struct {
	Document struct {
		Filename  string `json:"filename"`
		MDContent string `json:"md_content"`
	} `json:"document"`
	Status         string          `json:"status"`
	Errors         []convertError  `json:"errors"`
	ProcessingTime float64         `json:"processing_time"`
	Timings        json.RawMessage `json:"timings,omitempty"`
}

type convertError struct {
	ComponentType string `json:"component_type"`
	ModuleName    string `json:"module_name"`
	ErrorMessage  string `json:"error_message"`
}

// New creates a docling adapter.
func New(cfg Config) (*Extractor, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport, err := newTransport(cfg.Trust)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// newTransport builds a transport with its own TLS configuration.
func newTransport(trust TrustConfig) (*http.Transport, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("docling: unexpected default transport type")
	}
	transport := base.Clone()

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if trust.InsecureSkipVerify {
		logger.Warn("docling: TLS certificate verification disabled")
		tlsCfg.InsecureSkipVerify = true //nolint:gosec // opt-in via docling.insecure_skip_verify
	}
	if trust.CAFile != "" {
		pem, err := os.ReadFile(trust.CAFile)
		if err != nil {
			return nil, fmt.Errorf("docling: read CA file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates in %s", domain.ErrInvalidInput, trust.CAFile)
		}
		tlsCfg.RootCAs = pool
	}
	transport.TLSClientConfig = tlsCfg
	return transport, nil
}

// Method returns domain.MethodDocling.
func (e *Extractor) Method() domain.Method {
	return domain.MethodDocling
}

// Version returns the engine version tag.
func (e *Extractor) Version() string {
	return "docling-serve/v1"
}

// Extract uploads the document and returns its markdown export.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", domain.ErrEmptyDocument
	}

	var out string
	err := extractors.WithTempFile(content, func(path string) error {
		md, err := e.convert(ctx, path)
		if err != nil {
			return err
		}
		out = md
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (e *Extractor) convert(ctx context.Context, path string) (string, error) {
	body, contentType, err := multipartBody(path)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+convertPath, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return "", fmt.Errorf("docling error (status %d): %s", resp.StatusCode, strings.TrimSpace(msg))
	}

	var convResp convertResponse
	if err := json.Unmarshal(respBody, &convResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if convResp.Status != "success" {
		if len(convResp.Errors) > 0 {
			return "", fmt.Errorf("docling conversion %s: %s", convResp.Status, convResp.Errors[0].ErrorMessage)
		}
		return "", fmt.Errorf("docling conversion %s", convResp.Status)
	}

	logger.Debug("docling: converted %s in %.2fs", convResp.Document.Filename, convResp.ProcessingTime)
	return convResp.Document.MDContent, nil
}

// multipartBody builds the form: files=<pdf>, to_formats=md.
func multipartBody(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("files", "document.pdf")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy document: %w", err)
	}
	if err := w.WriteField("to_formats", "md"); err != nil {
		return nil, "", fmt.Errorf("write field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Package mistral provides the cloud OCR method backed by the Mistral OCR API.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
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
	DefaultBaseURL = "https://api.mistral.ai"
	DefaultModel   = domain.DefaultMistralModel
	DefaultTimeout = 2 * time.Minute

	// signedURLExpiryHours is how long the uploaded document stays reachable.
	signedURLExpiryHours = 24
)

// MissingKeyMessage is returned as the method's output when no API key is set.
const MissingKeyMessage = "Mistral API key is not set in environment variables."

// ErrRateLimited is returned when the API answers 429.
var ErrRateLimited = errors.New("mistral: rate limited")

// Config holds configuration for the Mistral adapter.
type Config struct {
	// APIKey is the Mistral API key. Empty degrades the method to MissingKeyMessage.
	APIKey string

	// BaseURL is the API base URL (default: https://api.mistral.ai).
	BaseURL string

	// Model is the OCR model (default: mistral-ocr-latest).
	Model string

	// Timeout is the per-request timeout (default: 2m).
	Timeout time.Duration

	// RateLimit throttles requests. Zero value uses DefaultRateLimit.
	RateLimit RateLimitConfig
}

// Extractor runs documents through Mistral OCR.
type Extractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *RateLimiter
}

// fileResponse is the /v1/files upload response format.
type fileResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Purpose  string `json:"purpose"`
}

// signedURLResponse is the /v1/files/{id}/url response format.
type signedURLResponse struct {
	URL string `json:"url"`
}

// ocrRequest is the /v1/ocr request format.
type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

// ocrResponse is the /v1/ocr response format.
type ocrResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
	Model     string `json:"model"`
	UsageInfo struct {
		PagesProcessed int `json:"pages_processed"`
		DocSizeBytes   int `json:"doc_size_bytes"`
	} `json:"usage_info"`
}

// apiError is the error envelope returned on non-2xx responses.
type apiError struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// New creates a Mistral adapter. A missing API key is not an error.
func New(cfg Config) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: NewRateLimiter(cfg.RateLimit),
	}
}

// Method returns domain.MethodMistral.
func (e *Extractor) Method() domain.Method {
	return domain.MethodMistral
}

// Version returns the model tag.
func (e *Extractor) Version() string {
	return "mistral/" + e.model
}

// Configured reports whether an API key is present.
func (e *Extractor) Configured() bool {
	return e.apiKey != ""
}

// Extract uploads the document, obtains a signed URL and runs OCR over it.
// Page markdown is concatenated, each page followed by a blank line.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if !e.Configured() {
		logger.Debug("mistral: %v, returning placeholder", domain.ErrCredentialMissing)
		return MissingKeyMessage, nil
	}
	if len(content) == 0 {
		return "", domain.ErrEmptyDocument
	}

	var out string
	err := extractors.WithTempFile(content, func(path string) error {
		fileID, err := e.upload(ctx, path)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		signed, err := e.signedURL(ctx, fileID)
		if err != nil {
			return fmt.Errorf("signed url: %w", err)
		}
		md, err := e.ocr(ctx, signed)
		if err != nil {
			return fmt.Errorf("ocr: %w", err)
		}
		out = md
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (e *Extractor) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("purpose", "ocr"); err != nil {
		return "", fmt.Errorf("write field: %w", err)
	}
	part, err := w.CreateFormFile("file", "uploaded_file.pdf")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	var resp fileResponse
	if err := e.do(ctx, http.MethodPost, "/v1/files", &buf, w.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("upload response has no file id")
	}
	logger.Debug("mistral: uploaded %s as %s", resp.Filename, resp.ID)
	return resp.ID, nil
}

func (e *Extractor) signedURL(ctx context.Context, fileID string) (string, error) {
	q := url.Values{}
	q.Set("expiry", fmt.Sprint(signedURLExpiryHours))
	endpoint := "/v1/files/" + url.PathEscape(fileID) + "/url?" + q.Encode()

	var resp signedURLResponse
	if err := e.do(ctx, http.MethodGet, endpoint, nil, "", &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("response has no url")
	}
	return resp.URL, nil
}

func (e *Extractor) ocr(ctx context.Context, documentURL string) (string, error) {
	reqBody := ocrRequest{
		Model: e.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var resp ocrResponse
	if err := e.do(ctx, http.MethodPost, "/v1/ocr", bytes.NewReader(jsonBody), "application/json", &resp); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, page := range resp.Pages {
		b.WriteString(page.Markdown)
		b.WriteString("\n\n")
	}
	logger.Debug("mistral: %d pages processed by %s", resp.UsageInfo.PagesProcessed, resp.Model)
	return b.String(), nil
}

// do sends one throttled request and decodes a JSON response into out.
func (e *Extractor) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		e.limiter.RecordRateLimit(resp)
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mistral error (status %d): %s", resp.StatusCode, errorMessage(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Detail) > 0 {
			return string(apiErr.Detail)
		}
	}
	return strings.TrimSpace(string(body))
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for pdfcompare resources.
	uriScheme = "pdfcompare://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing examples.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "examples",
		Name:        "examples",
		Description: "Bundled example PDF documents",
		MIMEType:    "application/json",
	}, s.handleExamplesResource)

	// Static resource for listing cached results.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cache",
		Name:        "cache",
		Description: "Cached extraction results",
		MIMEType:    "application/json",
	}, s.handleCacheResource)

	// Template for a completed comparison.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "results/{id}",
		Name:        "result-set",
		Description: "All method results of a previous compare_pdf call",
		MIMEType:    "application/json",
	}, s.handleResultSetResource)
}

// handleExamplesResource returns the example catalog.
func (s *Server) handleExamplesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	examples, err := s.ports.Document.Examples(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing examples: %w", err)
	}

	type exampleInfo struct {
		Label string `json:"label"`
		Name  string `json:"name"`
		Path  string `json:"path"`
	}

	infos := make([]exampleInfo, len(examples))
	for i, ex := range examples {
		infos[i] = exampleInfo{
			Label: ex.Label,
			Name:  ex.Name(),
			Path:  ex.Path,
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleCacheResource returns the cached results.
func (s *Server) handleCacheResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type entryInfo struct {
		Key           string    `json:"key"`
		Document      string    `json:"document,omitempty"`
		Method        string    `json:"method"`
		EngineVersion string    `json:"engine_version,omitempty"`
		Size          int64     `json:"size"`
		CreatedAt     time.Time `json:"created_at"`
	}

	infos := []entryInfo{}
	if s.ports.Cache != nil {
		entries, err := s.ports.Cache.Entries(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing cache: %w", err)
		}
		for _, e := range entries {
			infos = append(infos, entryInfo{
				Key:           e.Key,
				Document:      e.Document,
				Method:        e.Method.ID(),
				EngineVersion: e.EngineVersion,
				Size:          e.Size,
				CreatedAt:     e.CreatedAt,
			})
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleResultSetResource returns a previously produced result set.
func (s *Server) handleResultSetResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractResultSetID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	set, err := s.ports.Comparison.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("looking up result set: %w", err)
	}

	output := CompareOutput{
		ID:       set.ID(),
		Document: set.Document().Identity(),
		Size:     set.Document().Size(),
		Results:  make([]ResultOutput, 0, set.Len()-1),
	}
	for _, r := range set.Results() {
		output.Results = append(output.Results, toResultOutput(r))
	}

	return jsonResult(req.Params.URI, output)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractResultSetID extracts the ID from a URI like pdfcompare://results/{id}.
func extractResultSetID(uri string) string {
	const prefix = uriScheme + "results/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

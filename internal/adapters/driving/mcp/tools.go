package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// CompareInput is the input schema for the compare_pdf tool.
type CompareInput struct {
	Example string `json:"example,omitempty" jsonschema:"bundled example name, e.g. Example OCR PDF or Ocr.pdf"`
	Path    string `json:"path,omitempty" jsonschema:"path to a PDF file on the server"`
	Method  string `json:"method,omitempty" jsonschema:"run only this method: tesseract, docling, pdftext or mistral"`
}

// CompareOutput is the output schema for the compare_pdf tool.
type CompareOutput struct {
	ID       string         `json:"id,omitempty"`
	Document string         `json:"document,omitempty"`
	Size     int            `json:"size,omitempty"`
	Results  []ResultOutput `json:"results"`
	Message  string         `json:"message,omitempty"`
}

// ResultOutput represents one method's result.
type ResultOutput struct {
	Method string `json:"method"`
	Label  string `json:"label"`
	Text   string `json:"text"`
	Error  string `json:"error,omitempty"`
	Cached bool   `json:"cached"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_pdf",
		Description: "Extract text from a PDF with every method (local OCR, docling, text layer, Mistral OCR) and return all results",
	}, s.handleCompare)
}

// handleCompare handles the compare_pdf tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	var method domain.Method
	if input.Method != "" {
		m, err := domain.ParseMethod(input.Method)
		if err != nil {
			return nil, CompareOutput{}, err
		}
		if !m.IsValid() {
			return nil, CompareOutput{}, domain.ErrUnsupportedMethod
		}
		method = m
	}

	doc, err := s.loadDocument(ctx, input)
	if err != nil {
		if msg, ok := domain.MissingInputMessage(err); ok {
			return nil, CompareOutput{Results: []ResultOutput{}, Message: msg}, nil
		}
		return nil, CompareOutput{}, err
	}

	output := CompareOutput{
		Document: doc.Identity(),
		Size:     doc.Size(),
	}

	if method != "" {
		r, err := s.ports.Comparison.Extract(ctx, doc, method)
		if err != nil {
			return nil, CompareOutput{}, err
		}
		output.Results = []ResultOutput{toResultOutput(r)}
		return nil, output, nil
	}

	set, err := s.ports.Comparison.Compare(ctx, doc)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	output.ID = set.ID()
	output.Results = make([]ResultOutput, 0, set.Len()-1)
	for _, r := range set.Results() {
		output.Results = append(output.Results, toResultOutput(r))
	}
	return nil, output, nil
}

func (s *Server) loadDocument(ctx context.Context, input CompareInput) (domain.Document, error) {
	switch {
	case input.Example != "":
		return s.ports.Document.LoadExample(ctx, input.Example)
	case input.Path != "":
		return s.ports.Document.LoadUpload(ctx, input.Path)
	default:
		return domain.Document{}, ErrNoSource
	}
}

func toResultOutput(r domain.ExtractionResult) ResultOutput {
	out := ResultOutput{
		Method: r.Method.ID(),
		Label:  r.Method.Label(),
		Text:   r.Text,
		Cached: r.Cached,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

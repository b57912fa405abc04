package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// processingNotice is shown while a comparison runs.
const processingNotice = "Processing document... please wait."

var (
	compareSource sourceFlags
	compareMethod string
	compareOutput string
	compareJSON   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every extraction method over a document",
	Long: `Runs all extraction methods concurrently over one PDF and prints each
method's output, followed by the original document.

Examples:
  pdfcompare compare --example "Example OCR PDF"
  pdfcompare compare --file report.pdf --method pdftext
  pdfcompare compare --example Ocr --output out/
  cat report.pdf | pdfcompare compare --file -`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

var extractSource sourceFlags

var extractCmd = &cobra.Command{
	Use:   "extract [method]",
	Short: "Run a single extraction method",
	Long: `Runs one extraction method and prints its raw output.

Methods: tesseract, docling, pdftext, mistral`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	compareSource.register(compareCmd)
	compareCmd.Flags().StringVarP(&compareMethod, "method", "m", "", "only print this method's result")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write each result to DIR/<name>_<method>.md")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(compareCmd)

	extractSource.register(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	defer func() {
		compareSource.reset()
		compareMethod = ""
		compareOutput = ""
		compareJSON = false
	}()

	if comparisonService == nil {
		return errors.New("comparison service not configured")
	}

	var only domain.Method
	if compareMethod != "" {
		m, err := domain.ParseMethod(compareMethod)
		if err != nil {
			return err
		}
		only = m
	}

	ctx := cmd.Context()
	doc, ok, err := loadDocument(ctx, cmd, &compareSource)
	if err != nil || !ok {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), processingNotice)

	set, err := comparisonService.Compare(ctx, doc)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareOutput != "" {
		written, err := writeResults(compareOutput, set)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d files to %s\n", written, compareOutput)
	}

	if compareJSON {
		return outputCompareJSON(cmd.OutOrStdout(), set, only)
	}
	outputCompare(cmd.OutOrStdout(), set, only)
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	defer extractSource.reset()

	if comparisonService == nil {
		return errors.New("comparison service not configured")
	}

	method, err := domain.ParseMethod(args[0])
	if err != nil {
		return err
	}
	if !method.IsValid() {
		return fmt.Errorf("%w: %s is not an extraction method", domain.ErrUnsupportedMethod, method)
	}

	ctx := cmd.Context()
	doc, ok, err := loadDocument(ctx, cmd, &extractSource)
	if err != nil || !ok {
		return err
	}

	result, err := comparisonService.Extract(ctx, doc, method)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if result.Failed() {
		return fmt.Errorf("%s: %w", method.Label(), result.Err)
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Text)
	if !strings.HasSuffix(result.Text, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

// outputCompare prints each labelled result in display order.
func outputCompare(w io.Writer, set *domain.ResultSet, only domain.Method) {
	header := plainHeader
	if isTerminal(w) {
		header = styledHeader
	}

	for _, m := range set.Methods() {
		if only != "" && m != only {
			continue
		}

		fmt.Fprintln(w, header(m.Label()))
		if m == domain.MethodOriginal {
			doc := set.Document()
			fmt.Fprintf(w, "%s (%d bytes)\n\n", doc.Identity(), doc.Size())
			continue
		}

		r, _ := set.Result(m)
		fmt.Fprintln(w, strings.TrimRight(r.Text, "\n"))
		fmt.Fprintln(w)
	}
}

func plainHeader(label string) string {
	return "## " + label + "\n"
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED")).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(lipgloss.Color("#6B7280"))

func styledHeader(label string) string {
	return headerStyle.Render(label)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// compareJSONResult is the JSON shape of one method's result.
type compareJSONResult struct {
	Method     string `json:"method"`
	Label      string `json:"label"`
	Text       string `json:"text"`
	Error      string `json:"error,omitempty"`
	Cached     bool   `json:"cached"`
	DurationMS int64  `json:"duration_ms"`

	// Path and Size describe the document on the original entry.
	Path string `json:"path,omitempty"`
	Size int    `json:"size,omitempty"`
}

// compareJSONOutput is the JSON shape of a result set.
type compareJSONOutput struct {
	ID        string              `json:"id"`
	Document  string              `json:"document"`
	Size      int                 `json:"size"`
	CreatedAt time.Time           `json:"created_at"`
	Results   []compareJSONResult `json:"results"`
}

func outputCompareJSON(w io.Writer, set *domain.ResultSet, only domain.Method) error {
	doc := set.Document()
	out := compareJSONOutput{
		ID:        set.ID(),
		Document:  doc.Identity(),
		Size:      doc.Size(),
		CreatedAt: set.CreatedAt(),
		Results:   []compareJSONResult{},
	}
	if only == domain.MethodOriginal {
		out.Results = append(out.Results, compareJSONResult{
			Method: domain.MethodOriginal.ID(),
			Label:  domain.MethodOriginal.Label(),
			Path:   doc.Identity(),
			Size:   doc.Size(),
		})
	}
	for _, r := range set.Results() {
		if only != "" && r.Method != only {
			continue
		}
		jr := compareJSONResult{
			Method:     r.Method.ID(),
			Label:      r.Method.Label(),
			Text:       r.Text,
			Cached:     r.Cached,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeResults writes successful results as <base>_<method>.md files in dir.
func writeResults(dir string, set *domain.ResultSet) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	base := set.Document().BaseName()
	written := 0
	for _, r := range set.Results() {
		if r.Failed() {
			continue
		}
		path := filepath.Join(dir, base+"_"+r.Method.ID()+".md")
		if err := os.WriteFile(path, []byte(r.Text), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

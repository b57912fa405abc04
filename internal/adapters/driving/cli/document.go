package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// stdinName names documents read from standard input.
const stdinName = "stdin.pdf"

// sourceFlags selects the document a command works on.
type sourceFlags struct {
	example string
	file    string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.example, "example", "e", "", "bundled example (label, file name or base name)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "path to a PDF file (\"-\" reads stdin)")
	cmd.MarkFlagsMutuallyExclusive("example", "file")
}

func (f *sourceFlags) reset() {
	f.example = ""
	f.file = ""
}

// errNoSource is returned when neither --example nor --file is given.
var errNoSource = errors.New("specify --example NAME or --file PATH")

// loadDocument resolves the selected document. A missing example or file is
// reported on stderr and returns ok=false without an error.
func loadDocument(ctx context.Context, cmd *cobra.Command, f *sourceFlags) (domain.Document, bool, error) {
	if documentService == nil {
		return domain.Document{}, false, errors.New("document service not configured")
	}

	var (
		doc domain.Document
		err error
	)
	switch {
	case f.example != "":
		doc, err = documentService.LoadExample(ctx, f.example)
	case f.file == "-":
		doc, err = readStdin(cmd)
	case f.file != "":
		doc, err = documentService.LoadUpload(ctx, f.file)
	default:
		return domain.Document{}, false, errNoSource
	}

	if err != nil {
		if msg, ok := domain.MissingInputMessage(err); ok {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
			return domain.Document{}, false, nil
		}
		return domain.Document{}, false, err
	}
	return doc, true, nil
}

func readStdin(cmd *cobra.Command) (domain.Document, error) {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading stdin: %w", err)
	}
	return documentService.FromBytes(stdinName, content)
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Manage bundled example documents",
}

var examplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled example documents",
	Args:  cobra.NoArgs,
	RunE:  runExamplesList,
}

var openFlags sourceFlags

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a document in the default PDF viewer",
	Args:  cobra.NoArgs,
	RunE:  runOpen,
}

func init() {
	openFlags.register(openCmd)

	examplesCmd.AddCommand(examplesListCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(openCmd)
}

func runExamplesList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	examples, err := documentService.Examples(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list examples: %w", err)
	}

	if len(examples) == 0 {
		cmd.Println("No examples found.")
		return nil
	}

	for _, ex := range examples {
		status := ""
		if _, err := os.Stat(ex.Path); err != nil {
			status = " (missing)"
		}
		cmd.Printf("  %-24s %s%s\n", ex.Label, ex.Path, status)
	}
	return nil
}

func runOpen(cmd *cobra.Command, _ []string) error {
	defer openFlags.reset()

	if actionService == nil {
		return errors.New("action service not configured")
	}

	doc, ok, err := loadDocument(cmd.Context(), cmd, &openFlags)
	if err != nil || !ok {
		return err
	}

	if err := actionService.OpenDocument(cmd.Context(), doc); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	cmd.Printf("Opened %s\n", doc.Name)
	return nil
}

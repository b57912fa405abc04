package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/web"
)

// defaultServePort is the web viewer's default port.
const defaultServePort = 8080

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web comparison viewer",
	Long: `Start a local web server that compares an example or uploaded PDF and
shows every method's output next to the original document.

Examples:
  pdfcompare serve
  pdfcompare serve --port 9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", defaultServePort, "HTTP port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if comparisonService == nil || documentService == nil {
		return errors.New("comparison service not configured")
	}
	if servePort < 0 || servePort > 65535 {
		return fmt.Errorf("invalid port %d", servePort)
	}

	server, err := web.NewServer(&web.Ports{
		Comparison: comparisonService,
		Document:   documentService,
	})
	if err != nil {
		return err
	}

	if err := server.Start(fmt.Sprintf("127.0.0.1:%d", servePort)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Viewer listening on %s\n", server.URL())

	<-cmd.Context().Done()
	return server.Stop()
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose comparisons to MCP clients",
	Long: `Start a Model Context Protocol server so assistants can compare PDFs.

Tool:
  compare_pdf   run every method (or one, with "method") over an example or a path

Resources:
  pdfcompare://examples       bundled example documents
  pdfcompare://cache          cached extraction files
  pdfcompare://results/{id}   a recent comparison

Stdio is used unless --port is given, in which case the streamable HTTP
transport listens on localhost.

Examples:
  pdfcompare mcp serve
  pdfcompare mcp serve --port 8090

Client configuration:
  {"mcpServers": {"pdfcompare": {"command": "pdfcompare", "args": ["mcp", "serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("invalid port %d", mcpPort)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Comparison: comparisonService,
		Document:   documentService,
		Cache:      cacheService,
	})
	if err != nil {
		return err
	}

	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf("127.0.0.1:%d", mcpPort)
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s/\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

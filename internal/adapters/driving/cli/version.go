package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ids := make([]string, 0, len(domain.AllMethods()))
		for _, m := range domain.AllMethods() {
			ids = append(ids, m.ID())
		}
		cmd.Printf("pdfcompare version %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("methods: %s\n", strings.Join(ids, ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

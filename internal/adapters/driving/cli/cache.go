package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear cached results",
	Long: `Extraction results for bundled examples are cached as markdown files
named <document>_<method>.md. Uploads are never cached.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached results",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [document]",
	Short: "Remove cached results",
	Long:  `Removes cached results for one document, or every cached result when no document is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE:  runCachePath,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	entries, err := cacheService.Entries(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("Cache is empty.")
		return nil
	}

	cmd.Printf("Cached results (%d):\n\n", len(entries))
	for _, e := range entries {
		engine := e.EngineVersion
		if engine == "" {
			engine = "-"
		}
		cmd.Printf("  %-40s %-10s %8d bytes  %s  %s\n",
			e.Key, e.Method.ID(), e.Size, e.CreatedAt.Local().Format(time.DateTime), engine)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	identity := ""
	if len(args) == 1 {
		identity = args[0]
	}

	n, err := cacheService.Clear(cmd.Context(), identity)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	cmd.Printf("Removed %d cached results.\n", n)
	return nil
}

func runCachePath(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}
	cmd.Println(cacheService.Dir())
	return nil
}

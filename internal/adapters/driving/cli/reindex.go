package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the full-text index from chunk rows",
	Long: `Drops the full-text index and repopulates it from the stored chunks.
Normal operation keeps the index in sync automatically; reindex is the
recovery path after manual database surgery or a suspected mismatch.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if app.Store == nil {
		return errors.New("store not configured")
	}

	if err := app.Store.RebuildIndex(cmd.Context()); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	stats, err := app.Store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}
	cmd.Printf("Reindexed %d chunks\n", stats.IndexedChunks)
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if app.Store == nil {
		return errors.New("store not configured")
	}

	stats, err := app.Store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:      %d\n", stats.Documents)
	cmd.Printf("Chunks:         %d\n", stats.Chunks)
	cmd.Printf("Indexed chunks: %d\n", stats.IndexedChunks)
	cmd.Printf("Works:          %d\n", stats.Works)

	exts := make([]string, 0, len(stats.DocsByExt))
	for ext := range stats.DocsByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		cmd.Printf("  %-6s %d\n", ext, stats.DocsByExt[ext])
	}
	return nil
}

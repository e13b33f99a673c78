package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link multi-volume works",
	Long: `Scans every book-like document, derives a work title and volume
ordinal from its filename, and writes the shared work identity onto the
record. Safe to re-run; identity depends only on filenames.`,
	Args: cobra.NoArgs,
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, _ []string) error {
	if app.Linker == nil {
		return errors.New("work linker not configured")
	}

	report, err := app.Linker.LinkAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	cmd.Printf("Scanned %d documents, linked %d\n", report.Scanned, report.Linked)
	return nil
}

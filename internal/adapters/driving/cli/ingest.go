package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbrus062/corpus/internal/core/ports/driving"
)

var (
	ingestWatch   bool
	ingestMinText int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into the corpus",
	Long: `Ingests a file or directory tree into the corpus store.
Each supported file is extracted, normalized, chunked and indexed.
Unchanged files are skipped, so re-running over the same tree is cheap.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the directory and re-ingest on change")
	ingestCmd.Flags().IntVar(&ingestMinText, "min-text", 0, "minimum extracted characters to accept (0 = configured default)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if app.Ingestor == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	ctx := cmd.Context()

	if !info.IsDir() {
		if ingestWatch {
			return errors.New("--watch requires a directory")
		}
		status, err := app.Ingestor.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Ingested %s (%s)\n", path, statusWord(status == driving.IngestSkipped))
		return nil
	}

	report, err := app.Ingestor.IngestDir(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Run %s\n", report.RunID)
	cmd.Printf("  ok:      %d (%d unchanged)\n", report.OK, report.Skipped)
	cmd.Printf("  failed:  %d\n", report.Failed)
	if report.FailureLog != "" {
		cmd.Printf("  log:     %s\n", report.FailureLog)
	}

	if ingestWatch {
		return app.Ingestor.Watch(ctx, path)
	}
	return nil
}

func statusWord(skipped bool) string {
	if skipped {
		return "unchanged"
	}
	return "updated"
}

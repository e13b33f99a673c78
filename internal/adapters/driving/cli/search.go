package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/services"
)

var (
	searchLimit    int
	searchWindow   int
	searchNoSkip   bool
	searchJSON     bool
	filterExt      string
	filterLike     string
	filterPathEq   string
	filterWorkID   string
	filterWorkLike string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the corpus with a full-text query",
	Long: `Runs a literal full-text query over the indexed chunks and prints
the top matches with a highlighted snippet. Quotes make phrases;
AND/OR/NOT are supported.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchWindow, "window", services.DefaultSnippetWindow, "snippet context characters on each side of the match")
	searchCmd.Flags().BoolVar(&searchNoSkip, "no-boilerplate-skip", false, "do not skip publisher boilerplate chunks")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	addFilterFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

// addFilterFlags registers the structural filter flags shared by the
// query commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterExt, "ext", "", "restrict to a file extension, e.g. pdf or txt")
	cmd.Flags().StringVar(&filterLike, "like", "", "restrict to paths containing this substring (case-insensitive)")
	cmd.Flags().StringVar(&filterPathEq, "path-eq", "", "restrict to an exact relative path")
	cmd.Flags().StringVar(&filterWorkID, "work-id", "", "restrict to a linked work")
	cmd.Flags().StringVar(&filterWorkLike, "work-like", "", "restrict to work titles containing this substring")
}

func currentFilters() domain.SearchFilters {
	return domain.SearchFilters{
		Ext:      filterExt,
		PathLike: filterLike,
		PathEq:   filterPathEq,
		WorkID:   filterWorkID,
		WorkLike: filterWorkLike,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	if app.Query == nil {
		return errors.New("query service not configured")
	}
	query := args[0]

	results, err := app.Query.Search(cmd.Context(), query, currentFilters(), searchLimit, !searchNoSkip)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printResultsJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No results.")
		return nil
	}

	focus := services.FocusTerm(query)
	for i, r := range results {
		printResultHeader(cmd, i+1, r)
		cmd.Printf("    %s\n\n", services.Snippet(r.Chunk.Text, focus, searchWindow))
	}
	return nil
}

// printResultHeader prints one result's provenance line.
func printResultHeader(cmd *cobra.Command, n int, r domain.SearchResult) {
	cmd.Printf("[%d] %s (%s, score %.2f)\n", n, r.RelPath, r.Ext, r.Score)
	if r.WorkTitle != "" {
		vol := ""
		if r.VolIdx != nil {
			if r.VolTotal != nil {
				vol = fmt.Sprintf(" vol %d/%d", *r.VolIdx, *r.VolTotal)
			} else {
				vol = fmt.Sprintf(" vol %d", *r.VolIdx)
			}
		}
		cmd.Printf("    work: %s%s\n", r.WorkTitle, vol)
	}
	cmd.Printf("    chunk: %s [%d..%d]\n", r.Chunk.ID, r.Chunk.StartChar, r.Chunk.EndChar)
}

func printResultsJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

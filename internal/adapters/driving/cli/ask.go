package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/services"
)

var (
	askCount int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question with ranked corpus passages",
	Long: `Turns a natural-language question into full-text queries and prints
the best matching passages with their provenance. Queries fall through
three tiers (anchor terms, broad OR, single longest token) until one
produces results.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askCount, "k", services.DefaultAnswerCount, "number of passages to return")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	addFilterFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if app.Query == nil {
		return errors.New("query service not configured")
	}
	question := args[0]

	results, err := app.Query.Answer(cmd.Context(), question, currentFilters(), askCount)
	if err != nil {
		var nre *domain.NoResultsError
		if errors.As(err, &nre) {
			cmd.Println("No relevant chunks found.")
			cmd.Println("Tried queries:")
			for _, a := range nre.Attempts {
				cmd.Printf("  - %s: %q\n", a.Tier, a.Query)
			}
			return err
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printResultsJSON(cmd, results)
	}

	focus := services.FocusTerm(question)
	for i, r := range results {
		printResultHeader(cmd, i+1, r)
		cmd.Printf("    %s\n\n", services.Snippet(r.Chunk.Text, focus, services.DefaultSnippetWindow))
	}
	return nil
}

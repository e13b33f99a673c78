package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	documentListExt string
	documentChunks  bool
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect stored documents",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one document record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

func init() {
	documentListCmd.Flags().StringVar(&documentListExt, "ext", "", "restrict to a file extension")
	documentGetCmd.Flags().BoolVar(&documentChunks, "chunks", false, "print the document's chunks")
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if app.Documents == nil {
		return errors.New("document service not configured")
	}

	var exts []string
	if documentListExt != "" {
		exts = append(exts, documentListExt)
	}

	docs, err := app.Documents.List(cmd.Context(), exts...)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents.")
		return nil
	}
	for _, doc := range docs {
		cmd.Printf("%s  %-4s  %s\n", doc.ID, doc.Ext, doc.RelPath)
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if app.Documents == nil {
		return errors.New("document service not configured")
	}

	doc, chunks, err := app.Documents.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	cmd.Printf("id:        %s\n", doc.ID)
	cmd.Printf("path:      %s\n", doc.RelPath)
	cmd.Printf("ext:       %s\n", doc.Ext)
	cmd.Printf("size:      %d bytes\n", doc.SizeBytes)
	cmd.Printf("norm hash: %s\n", doc.NormHash)
	cmd.Printf("chunks:    %d\n", len(chunks))
	if doc.WorkTitle != "" {
		cmd.Printf("work:      %s (%s)\n", doc.WorkTitle, doc.WorkID)
		if doc.VolIdx != nil {
			if doc.VolTotal != nil {
				cmd.Printf("volume:    %d of %d\n", *doc.VolIdx, *doc.VolTotal)
			} else {
				cmd.Printf("volume:    %d\n", *doc.VolIdx)
			}
		}
	}

	if documentChunks {
		cmd.Println()
		for _, c := range chunks {
			cmd.Printf("[%d] %s [%d..%d]\n", c.Index, c.ID, c.StartChar, c.EndChar)
		}
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/mbrus062/corpus/internal/adapters/driven/storage/memory"
	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/services"
)

// setupTestServices wires the commands to an in-memory store with a
// small seeded corpus. The returned cleanup unwires everything.
func setupTestServices() func() {
	store := memory.NewDocumentStore()
	ctx := context.Background()

	vol := 1
	total := 2
	_ = store.UpsertDocument(ctx, &domain.Document{
		ID: "doc-1", RelPath: "calvin/Institutes (Vol. 1 of 2).txt", Ext: "txt",
		SizeBytes: 2048, NormHash: "abc",
	})
	_ = store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "c1", DocID: "doc-1", Index: 0, StartChar: 0, EndChar: 58,
			Text: "Of the eternal election of God, and of grace and faith."},
		{ID: "c2", DocID: "doc-1", Index: 1, StartChar: 58, EndChar: 100,
			Text: "On the civil magistrate and government."},
	})
	_ = store.SetWorkLink(ctx, "doc-1", "work-1", "Institutes", &vol, &total)

	SetServices(Services{
		Query:     services.NewQueryPlanner(store),
		Linker:    services.NewWorkLinker(store),
		Documents: services.NewDocumentService(store),
		Store:     store,
	})

	return func() {
		app = Services{}
		wired = false
	}
}

// setupEmptyServices wires the commands to an empty in-memory store.
func setupEmptyServices() func() {
	store := memory.NewDocumentStore()
	SetServices(Services{
		Query:     services.NewQueryPlanner(store),
		Linker:    services.NewWorkLinker(store),
		Documents: services.NewDocumentService(store),
		Store:     store,
	})
	return func() {
		app = Services{}
		wired = false
	}
}

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrus062/corpus/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

// saveTestDocument inserts a minimal document record.
func saveTestDocument(t *testing.T, store *Store, id, relPath, ext string) {
	t.Helper()
	doc := &domain.Document{
		ID:        id,
		RelPath:   relPath,
		AbsPath:   "/corpus/" + relPath,
		Ext:       ext,
		SizeBytes: 1024,
		MTimeNS:   1700000000000000000,
		NormHash:  "hash-" + id,
		NormPath:  "/data/normalized/" + id + ".txt",
	}
	require.NoError(t, store.UpsertDocument(context.Background(), doc))
}

// saveTestChunks inserts n chunks for a document, each mentioning the
// given word so full-text queries can find them.
func saveTestChunks(t *testing.T, store *Store, docID, word string, n int) []domain.Chunk {
	t.Helper()
	chunks := make([]domain.Chunk, 0, n)
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("Paragraph %d discusses %s at some length.", i, word)
		chunks = append(chunks, domain.Chunk{
			ID:        fmt.Sprintf("%s:%d:%d:%d", docID, i, i*100, i*100+len(text)),
			DocID:     docID,
			Index:     i,
			StartChar: i * 100,
			EndChar:   i*100 + len(text),
			Text:      text,
		})
	}
	require.NoError(t, store.ReplaceChunks(context.Background(), docID, chunks))
	return chunks
}

// ==================== Store Creation Tests ====================

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "manifest.db"), store.Path())

	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	require.NoError(t, store.Close())

	// Migrations are idempotent; existing data survives a reopen.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	doc, err := store.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "a/one.txt", doc.RelPath)
}

// ==================== Document Tests ====================

func TestUpsertDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	vol := 2
	total := 3
	saveTestDocument(t, store, "doc-1", "works/inst-vol2.txt", "txt")
	require.NoError(t, store.SetWorkLink(ctx, "doc-1", "work-abc", "Institutes", &vol, &total))

	// Re-upserting after a file change must keep the work link intact.
	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	doc.SizeBytes = 2048
	doc.MTimeNS = 1800000000000000000
	doc.NormHash = "hash-v2"
	require.NoError(t, store.UpsertDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), got.SizeBytes)
	assert.Equal(t, int64(1800000000000000000), got.MTimeNS)
	assert.Equal(t, "hash-v2", got.NormHash)
	assert.Equal(t, "work-abc", got.WorkID)
	assert.Equal(t, "Institutes", got.WorkTitle)
	require.NotNil(t, got.VolIdx)
	assert.Equal(t, 2, *got.VolIdx)
	require.NotNil(t, got.VolTotal)
	assert.Equal(t, 3, *got.VolTotal)
}

func TestUpsertDocument_Invalid(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.UpsertDocument(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.UpsertDocument(ctx, &domain.Document{}), domain.ErrInvalidInput)
}

func TestGetDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDocuments(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "b/two.pdf", "pdf")
	saveTestDocument(t, store, "doc-2", "a/one.txt", "txt")
	saveTestDocument(t, store, "doc-3", "c/three.json", "json")

	all, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by rel_path.
	assert.Equal(t, "a/one.txt", all[0].RelPath)
	assert.Equal(t, "b/two.pdf", all[1].RelPath)
	assert.Equal(t, "c/three.json", all[2].RelPath)

	some, err := store.ListDocuments(ctx, "txt", "pdf")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "a/one.txt", some[0].RelPath)
	assert.Equal(t, "b/two.pdf", some[1].RelPath)
}

// ==================== Chunk Tests ====================

func TestReplaceChunks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	first := saveTestChunks(t, store, "doc-1", "providence", 5)

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, first[0].ID, got[0].ID)
	assert.Equal(t, first[4].Text, got[4].Text)

	// Replacing with a smaller set leaves no trace of the old one,
	// in the chunk table or in the index.
	saveTestChunks(t, store, "doc-1", "election", 3)

	got, err = store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, 3, stats.IndexedChunks)

	hits, err := store.Search(ctx, `"providence"`, domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = store.Search(ctx, `"election"`, domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestReplaceChunks_Empty(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	saveTestChunks(t, store, "doc-1", "grace", 4)

	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", nil))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.IndexedChunks)
}

func TestGetChunk(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	chunks := saveTestChunks(t, store, "doc-1", "faith", 2)

	got, err := store.GetChunk(ctx, chunks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, chunks[1].Text, got.Text)
	assert.Equal(t, 1, got.Index)

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Work Link Tests ====================

func TestSetWorkLink(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")

	vol := 1
	total := 4
	require.NoError(t, store.SetWorkLink(ctx, "doc-1", "work-1", "Commentary", &vol, &total))

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "work-1", doc.WorkID)
	assert.Equal(t, "Commentary", doc.WorkTitle)
	require.NotNil(t, doc.VolIdx)
	assert.Equal(t, 1, *doc.VolIdx)

	// Single-volume works carry no volume numbers.
	require.NoError(t, store.SetWorkLink(ctx, "doc-1", "work-1", "Commentary", nil, nil))
	doc, err = store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, doc.VolIdx)
	assert.Nil(t, doc.VolTotal)
}

func TestSetWorkLink_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.SetWorkLink(context.Background(), "missing", "work-1", "Title", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Search Tests ====================

func TestSearch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	saveTestDocument(t, store, "doc-2", "b/two.pdf", "pdf")
	saveTestChunks(t, store, "doc-1", "predestination", 2)
	saveTestChunks(t, store, "doc-2", "predestination", 3)

	hits, err := store.Search(ctx, `"predestination"`, domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 5)
	for _, h := range hits {
		assert.Contains(t, h.Chunk.Text, "predestination")
		assert.NotEmpty(t, h.RelPath)
	}
}

func TestSearch_Filters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "calvin/institutes-vol1.txt", "txt")
	saveTestDocument(t, store, "doc-2", "luther/bondage.pdf", "pdf")
	saveTestChunks(t, store, "doc-1", "reprobation", 2)
	saveTestChunks(t, store, "doc-2", "reprobation", 2)

	vol := 1
	total := 2
	require.NoError(t, store.SetWorkLink(ctx, "doc-1", "work-inst", "Institutes of the Christian Religion", &vol, &total))

	tests := []struct {
		name    string
		filters domain.SearchFilters
		want    int
		relPath string
	}{
		{"by extension", domain.SearchFilters{Ext: "pdf"}, 2, "luther/bondage.pdf"},
		{"by path substring", domain.SearchFilters{PathLike: "CALVIN"}, 2, "calvin/institutes-vol1.txt"},
		{"by exact path", domain.SearchFilters{PathEq: "luther/bondage.pdf"}, 2, "luther/bondage.pdf"},
		{"by work id", domain.SearchFilters{WorkID: "work-inst"}, 2, "calvin/institutes-vol1.txt"},
		{"by work title substring", domain.SearchFilters{WorkLike: "christian religion"}, 2, "calvin/institutes-vol1.txt"},
		{"no match", domain.SearchFilters{Ext: "json"}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := store.Search(ctx, `"reprobation"`, tt.filters, 10)
			require.NoError(t, err)
			require.Len(t, hits, tt.want)
			for _, h := range hits {
				assert.Equal(t, tt.relPath, h.RelPath)
			}
		})
	}
}

func TestSearch_WorkMetadataHydrated(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	saveTestChunks(t, store, "doc-1", "justification", 1)

	vol := 3
	total := 4
	require.NoError(t, store.SetWorkLink(ctx, "doc-1", "work-1", "Sermons", &vol, &total))

	hits, err := store.Search(ctx, `"justification"`, domain.SearchFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "work-1", hits[0].WorkID)
	assert.Equal(t, "Sermons", hits[0].WorkTitle)
	require.NotNil(t, hits[0].VolIdx)
	assert.Equal(t, 3, *hits[0].VolIdx)
	require.NotNil(t, hits[0].VolTotal)
	assert.Equal(t, 4, *hits[0].VolTotal)
}

func TestSearch_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	saveTestChunks(t, store, "doc-1", "merit", 8)

	hits, err := store.Search(ctx, `"merit"`, domain.SearchFilters{}, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearch_EmptyQuery(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Search(context.Background(), "  ", domain.SearchFilters{}, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ==================== Index Maintenance Tests ====================

func TestRebuildIndex(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	saveTestChunks(t, store, "doc-1", "calling", 4)

	// Wreck the mirror out-of-band, then rebuild it from chunk rows.
	_, err := store.db.Exec("DELETE FROM chunks_fts")
	require.NoError(t, err)

	hits, err := store.Search(ctx, `"calling"`, domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, store.RebuildIndex(ctx))

	hits, err = store.Search(ctx, `"calling"`, domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 4)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Chunks, stats.IndexedChunks)
}

func TestStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveTestDocument(t, store, "doc-1", "a/one.txt", "txt")
	saveTestDocument(t, store, "doc-2", "b/two.txt", "txt")
	saveTestDocument(t, store, "doc-3", "c/three.pdf", "pdf")
	saveTestChunks(t, store, "doc-1", "sin", 2)
	saveTestChunks(t, store, "doc-3", "corruption", 3)

	require.NoError(t, store.SetWorkLink(ctx, "doc-1", "work-1", "Title", nil, nil))
	require.NoError(t, store.SetWorkLink(ctx, "doc-2", "work-1", "Title", nil, nil))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 5, stats.Chunks)
	assert.Equal(t, 5, stats.IndexedChunks)
	assert.Equal(t, 1, stats.Works)
	assert.Equal(t, map[string]int{"txt": 2, "pdf": 1}, stats.DocsByExt)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrus062/corpus/internal/adapters/driven/storage/memory"
	"github.com/mbrus062/corpus/internal/core/domain"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Institutes of the Christian Religion.pdf", "Institutes of the Christian Religion"},
		{"page count", "Commentary on Romans (409p).pdf", "Commentary on Romans"},
		{"page count dotted", "Commentary on Romans (409 p.).pdf", "Commentary on Romans"},
		{"vol of", "Sermons (Vol. 1 of 2).txt", "Sermons"},
		{"bare vol", "Sermons Vol. 2.txt", "Sermons"},
		{"volume roman", "Works Volume III.pdf", "Works"},
		{"separator trim", "Tracts - Vol 1.txt", "Tracts"},
		{"no extension", "Letters", "Letters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanTitle(tt.in))
		})
	}
}

func TestParseVolume(t *testing.T) {
	intp := func(n int) *int { return &n }

	tests := []struct {
		name      string
		in        string
		wantIdx   *int
		wantTotal *int
	}{
		{"vol n of m", "Sermons (Vol. 1 of 2).txt", intp(1), intp(2)},
		{"bare vol", "Sermons Vol. 3.txt", intp(3), nil},
		{"zero padded", "Sermons Vol 02.txt", intp(2), nil},
		{"vol without dot", "Sermons Vol 4.txt", intp(4), nil},
		{"volume roman", "Works Volume IV.pdf", intp(4), nil},
		{"volume digit", "Works Volume 7.pdf", intp(7), nil},
		{"roman of roman", "Tracts Vol. II of III.txt", intp(2), intp(3)},
		{"no marker", "Letters of John Calvin.txt", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, total := parseVolume(tt.in)
			if tt.wantIdx == nil {
				assert.Nil(t, idx)
			} else {
				require.NotNil(t, idx)
				assert.Equal(t, *tt.wantIdx, *idx)
			}
			if tt.wantTotal == nil {
				assert.Nil(t, total)
			} else {
				require.NotNil(t, total)
				assert.Equal(t, *tt.wantTotal, *total)
			}
		})
	}
}

func TestLinkAll(t *testing.T) {
	store := memory.NewDocumentStore()
	linker := NewWorkLinker(store)
	ctx := context.Background()

	add := func(id, relPath, ext string) {
		require.NoError(t, store.UpsertDocument(ctx, &domain.Document{ID: id, RelPath: relPath, Ext: ext}))
	}
	add("d1", "calvin/Institutes (Vol. 1 of 2).pdf", "pdf")
	add("d2", "calvin/Institutes (Vol. 2 of 2).pdf", "pdf")
	add("d3", "luther/Bondage of the Will.txt", "txt")
	add("d4", "misc/notes.md", "md")

	report, err := linker.LinkAll(ctx)
	require.NoError(t, err)
	// md documents are not book-like and are not scanned.
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 3, report.Linked)

	d1, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	d2, err := store.GetDocument(ctx, "d2")
	require.NoError(t, err)

	// Both volumes collapse into one work.
	assert.Equal(t, "Institutes", d1.WorkTitle)
	assert.Equal(t, d1.WorkID, d2.WorkID)
	require.NotNil(t, d1.VolIdx)
	assert.Equal(t, 1, *d1.VolIdx)
	require.NotNil(t, d2.VolIdx)
	assert.Equal(t, 2, *d2.VolIdx)
	require.NotNil(t, d2.VolTotal)
	assert.Equal(t, 2, *d2.VolTotal)

	// Single-volume work: linked, no ordinals.
	d3, err := store.GetDocument(ctx, "d3")
	require.NoError(t, err)
	assert.Equal(t, "Bondage of the Will", d3.WorkTitle)
	assert.NotEqual(t, d1.WorkID, d3.WorkID)
	assert.Nil(t, d3.VolIdx)
	assert.Nil(t, d3.VolTotal)

	// Unscanned kinds stay unlinked.
	d4, err := store.GetDocument(ctx, "d4")
	require.NoError(t, err)
	assert.Empty(t, d4.WorkID)
}

func TestLinkAll_Idempotent(t *testing.T) {
	store := memory.NewDocumentStore()
	linker := NewWorkLinker(store)
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, &domain.Document{ID: "d1", RelPath: "Sermons Vol. 1.txt", Ext: "txt"}))

	_, err := linker.LinkAll(ctx)
	require.NoError(t, err)
	first, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)

	_, err = linker.LinkAll(ctx)
	require.NoError(t, err)
	second, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)

	assert.Equal(t, first.WorkID, second.WorkID)
	assert.Equal(t, first.WorkTitle, second.WorkTitle)
}

func TestWorkID_CaseAndSpacingInsensitive(t *testing.T) {
	a := domain.WorkID("Institutes of the Christian Religion")
	b := domain.WorkID("  institutes   OF the christian RELIGION ")
	assert.Equal(t, a, b)
}

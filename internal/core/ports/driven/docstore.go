package driven

import (
	"context"

	"github.com/mbrus062/corpus/internal/core/domain"
)

// DocumentStore persists documents and chunks and keeps the full-text
// index an exact mirror of the chunk rows. Backed by SQLite.
type DocumentStore interface {
	// UpsertDocument inserts or replaces a document record keyed by ID.
	UpsertDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns document records, optionally restricted to
	// the given extensions. Empty exts means all documents.
	ListDocuments(ctx context.Context, exts ...string) ([]domain.Document, error)

	// ReplaceChunks atomically deletes every chunk of a document and
	// inserts the new set, propagating both operations to the search
	// index inside the same transaction. A failure leaves either the
	// old chunk set or the new one, never a mixture.
	ReplaceChunks(ctx context.Context, docID string, chunks []domain.Chunk) error

	// GetChunks retrieves a document's chunks in sequence order.
	GetChunks(ctx context.Context, docID string) ([]domain.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns domain.ErrNotFound when absent.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// SetWorkLink writes the work identity onto a document record.
	SetWorkLink(ctx context.Context, docID, workID, workTitle string, volIdx, volTotal *int) error

	// Search runs a full-text query restricted by structural filters
	// and returns up to limit hydrated results ordered by relevance.
	Search(ctx context.Context, ftsQuery string, filters domain.SearchFilters, limit int) ([]domain.SearchResult, error)

	// RebuildIndex drops and repopulates the full-text index from the
	// chunk rows in one transaction.
	RebuildIndex(ctx context.Context) error

	// Stats returns corpus-wide counters.
	Stats(ctx context.Context) (*StoreStats, error)

	// Close releases the underlying database.
	Close() error
}

// StoreStats summarises the stored corpus.
type StoreStats struct {
	Documents     int
	Chunks        int
	IndexedChunks int
	Works         int
	DocsByExt     map[string]int
}

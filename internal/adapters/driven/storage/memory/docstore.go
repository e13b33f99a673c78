package memory

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	indexed   map[string]bool
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
		indexed:   make(map[string]bool),
	}
}

// UpsertDocument stores or updates a document record. Work-link fields
// of an existing record are preserved, matching the SQLite adapter.
func (s *DocumentStore) UpsertDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.UpdatedAt = time.Now().UTC()
	stored := *doc
	if prev, ok := s.documents[doc.ID]; ok {
		stored.WorkID = prev.WorkID
		stored.WorkTitle = prev.WorkTitle
		stored.VolIdx = prev.VolIdx
		stored.VolTotal = prev.VolTotal
	}
	s.documents[doc.ID] = stored
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns documents ordered by relative path.
func (s *DocumentStore) ListDocuments(_ context.Context, exts ...string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(exts))
	for _, e := range exts {
		wanted[strings.ToLower(e)] = true
	}

	var docs []domain.Document //nolint:prealloc // filtered below
	for _, doc := range s.documents {
		if len(wanted) > 0 && !wanted[doc.Ext] {
			continue
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].RelPath < docs[j].RelPath })
	return docs, nil
}

// ReplaceChunks swaps a document's chunk set.
func (s *DocumentStore) ReplaceChunks(_ context.Context, docID string, chunks []domain.Chunk) error {
	if docID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks[docID] = append([]domain.Chunk(nil), chunks...)
	s.indexed[docID] = true
	return nil
}

// GetChunks retrieves a document's chunks in sequence order.
func (s *DocumentStore) GetChunks(_ context.Context, docID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := append([]domain.Chunk(nil), s.chunks[docID]...)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// GetChunk retrieves a single chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// SetWorkLink writes the work identity onto a document record.
func (s *DocumentStore) SetWorkLink(_ context.Context, docID, workID, workTitle string, volIdx, volTotal *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[docID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.WorkID = workID
	doc.WorkTitle = workTitle
	doc.VolIdx = volIdx
	doc.VolTotal = volTotal
	doc.UpdatedAt = time.Now().UTC()
	s.documents[docID] = doc
	return nil
}

var queryWords = regexp.MustCompile(`[^\w]+`)

// Search matches chunks whose text contains any OR-term of the query.
// Results score by matched-term count, negated so lower is better like
// the SQLite adapter's bm25 ordering.
func (s *DocumentStore) Search(
	_ context.Context, ftsQuery string, filters domain.SearchFilters, limit int,
) ([]domain.SearchResult, error) {
	if strings.TrimSpace(ftsQuery) == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 10
	}

	var terms []string
	for _, part := range strings.Split(ftsQuery, " OR ") {
		term := strings.ToLower(strings.Trim(strings.TrimSpace(part), `"`))
		if term != "" {
			terms = append(terms, term)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.SearchResult
	for docID, chunks := range s.chunks {
		doc, ok := s.documents[docID]
		if !ok || !matchesFilters(doc, filters) {
			continue
		}
		for _, chunk := range chunks {
			words := make(map[string]bool)
			for _, w := range queryWords.Split(strings.ToLower(chunk.Text), -1) {
				words[w] = true
			}

			matched := 0
			for _, term := range terms {
				if strings.Contains(term, " ") {
					if strings.Contains(strings.ToLower(chunk.Text), term) {
						matched++
					}
				} else if words[term] {
					matched++
				}
			}
			if matched == 0 {
				continue
			}

			results = append(results, domain.SearchResult{
				Chunk:     chunk,
				RelPath:   doc.RelPath,
				Ext:       doc.Ext,
				WorkID:    doc.WorkID,
				WorkTitle: doc.WorkTitle,
				VolIdx:    doc.VolIdx,
				VolTotal:  doc.VolTotal,
				Score:     -float64(matched),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		if results[i].RelPath != results[j].RelPath {
			return results[i].RelPath < results[j].RelPath
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// RebuildIndex is a no-op: the matcher reads chunk rows directly.
func (s *DocumentStore) RebuildIndex(_ context.Context) error {
	return nil
}

// Stats returns corpus-wide counters.
func (s *DocumentStore) Stats(_ context.Context) (*driven.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &driven.StoreStats{
		Documents: len(s.documents),
		DocsByExt: make(map[string]int),
	}
	works := make(map[string]bool)
	for _, doc := range s.documents {
		stats.DocsByExt[doc.Ext]++
		if doc.WorkID != "" {
			works[doc.WorkID] = true
		}
	}
	stats.Works = len(works)
	for _, chunks := range s.chunks {
		stats.Chunks += len(chunks)
	}
	stats.IndexedChunks = stats.Chunks
	return stats, nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}

func matchesFilters(doc domain.Document, f domain.SearchFilters) bool {
	if f.Ext != "" && doc.Ext != strings.ToLower(f.Ext) {
		return false
	}
	if f.PathLike != "" && !strings.Contains(strings.ToLower(doc.RelPath), strings.ToLower(f.PathLike)) {
		return false
	}
	if f.PathEq != "" && doc.RelPath != f.PathEq {
		return false
	}
	if f.WorkID != "" && doc.WorkID != f.WorkID {
		return false
	}
	if f.WorkLike != "" && !strings.Contains(strings.ToLower(doc.WorkTitle), strings.ToLower(f.WorkLike)) {
		return false
	}
	return true
}

package services

import (
	"context"
	"fmt"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
	"github.com/mbrus062/corpus/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes stored documents for inspection.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a document service over the given store.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns document records, optionally restricted by extension.
func (s *DocumentService) List(ctx context.Context, exts ...string) ([]domain.Document, error) {
	docs, err := s.store.ListDocuments(ctx, exts...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Get returns a document and its chunks in sequence order.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, []domain.Chunk, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	chunks, err := s.store.GetChunks(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading chunks: %w", err)
	}
	return doc, chunks, nil
}

package driving

import (
	"context"

	"github.com/mbrus062/corpus/internal/core/domain"
)

// DocumentService exposes stored documents for inspection.
type DocumentService interface {
	// List returns document records, optionally restricted by extension.
	List(ctx context.Context, exts ...string) ([]domain.Document, error)

	// Get returns a document and its chunks in sequence order.
	Get(ctx context.Context, id string) (*domain.Document, []domain.Chunk, error)
}

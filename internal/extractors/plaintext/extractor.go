// Package plaintext reads text files verbatim for the ingest pipeline.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Exts returns the extensions this extractor handles.
func (e *Extractor) Exts() []string {
	return []string{"txt", "md"}
}

// Extract reads the file contents as UTF-8 text.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, path, err)
	}
	return string(data), nil
}

// Package pdf provides a PDF text extractor for the ingest pipeline.
//
// It uses ledongthuc/pdf (pure Go, no CGO) so ingestion needs no
// external converter binaries. Scanned image-only PDFs yield little or
// no text; the ingest service's minimum-text threshold catches those.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Exts returns the extensions this extractor handles.
func (e *Extractor) Exts() []string {
	return []string{"pdf"}
}

// Extract pulls plain text from every readable page, separated by blank
// lines so page boundaries survive as paragraph breaks.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped, not fatal.
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	return text.String(), nil
}

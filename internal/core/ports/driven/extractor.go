package driven

import "context"

// Extractor turns a source file of a specific kind into raw text.
// Extraction precedes normalisation; extractors are format shims and
// perform no text cleanup of their own.
type Extractor interface {
	// Exts returns the lowercased extensions this extractor handles,
	// without the leading dot.
	Exts() []string

	// Extract reads the file and returns its raw text. It returns an
	// error wrapping domain.ErrExtraction when the source cannot be
	// converted.
	Extract(ctx context.Context, path string) (string, error)
}

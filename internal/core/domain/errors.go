package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file kind with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtraction indicates the converter could not produce text from
	// a source (corrupt, unsupported, or image-only input).
	ErrExtraction = errors.New("extraction failed")

	// ErrTextTooShort indicates extraction succeeded but yielded too
	// little text to be useful, e.g. a scanned PDF with no OCR layer.
	// Treated the same as an extraction failure during batch ingestion.
	ErrTextTooShort = errors.New("extracted text too short")
)

// NoResultsError is returned when every fallback tier of the query
// planner came back empty. It enumerates the attempted tiers with their
// literal query strings. It is a result signal, never a panic.
type NoResultsError struct {
	Question string
	Attempts []QueryAttempt
}

// Error implements the error interface.
func (e *NoResultsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no results for %q", e.Question)
	if len(e.Attempts) > 0 {
		b.WriteString("; tried")
		for _, a := range e.Attempts {
			fmt.Fprintf(&b, " %s=%q", a.Tier, a.Query)
		}
	}
	return b.String()
}

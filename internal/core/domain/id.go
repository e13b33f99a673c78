package domain

import (
	"crypto/sha1" //nolint:gosec // identity hashing, not security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Identifiers are deterministic hashes over canonical inputs so any
// participant can compute the same ID independently. There is no central
// counter; ingestion stays idempotent and resumable.

// DocumentID derives the stable document identifier from a relative path.
// Path-derived, never content-derived.
func DocumentID(relPath string) string {
	sum := sha1.Sum([]byte(relPath)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// ChunkID derives the chunk identifier from its owning document, sequence
// index and character span. Identical inputs always yield the same ID.
func ChunkID(docID string, index, startChar, endChar int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d:%d:%d", docID, index, startChar, endChar))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// WorkID derives the work identifier from a title. The title is
// case-folded and whitespace-collapsed first, so two filenames that clean
// to the same title collide into the same work regardless of ingestion
// order.
func WorkID(title string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(title)), " ")
	sum := sha1.Sum([]byte(norm)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// NormHash is the content hash recorded for a normalised-text artifact.
func NormHash(normText string) string {
	sum := sha256.Sum256([]byte(normText))
	return hex.EncodeToString(sum[:])
}

// Package domain defines the core business entities for the corpus tool.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested source file with its normalised-text metadata
//   - Chunk: A retrievable slice of a document's normalised text
//   - Work: A logical title grouping one or more volume documents
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

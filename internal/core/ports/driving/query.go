package driving

import (
	"context"

	"github.com/mbrus062/corpus/internal/core/domain"
)

// QueryService answers questions and raw full-text queries over the
// corpus. All operations are read-only.
type QueryService interface {
	// Answer returns up to k ranked, boilerplate-filtered results for a
	// natural-language question using the tiered fallback strategy.
	// When every tier comes back empty it returns a
	// *domain.NoResultsError listing the attempted queries.
	Answer(ctx context.Context, question string, filters domain.SearchFilters, k int) ([]domain.SearchResult, error)

	// Search executes a literal full-text query (quotes for phrases,
	// AND/OR/NOT supported) with the same filtering pipeline.
	Search(ctx context.Context, ftsQuery string, filters domain.SearchFilters, limit int, skipBoilerplate bool) ([]domain.SearchResult, error)
}

// WorkLinkReport aggregates one linking pass.
type WorkLinkReport struct {
	// Scanned is the number of documents examined.
	Scanned int

	// Linked is the number of documents that received a work identity.
	Linked int
}

// WorkLinker clusters documents that are volumes of one logical work.
type WorkLinker interface {
	// LinkAll scans every ingestible document, derives work title and
	// volume ordinal from its filename, and annotates the record.
	// Heuristic best-effort: unmatched documents are left unlinked.
	LinkAll(ctx context.Context) (*WorkLinkReport, error)
}

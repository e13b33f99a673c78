package domain

// SearchFilters restricts retrieval to a structural subset of the corpus.
// All fields are optional; the zero value matches everything.
type SearchFilters struct {
	// Ext restricts to one file extension, e.g. "pdf" or "txt".
	Ext string

	// PathLike restricts to documents whose rel_path contains this
	// substring, case-insensitive.
	PathLike string

	// PathEq restricts to an exact rel_path match (a single file).
	PathEq string

	// WorkID restricts to one linked work (multi-volume sets).
	WorkID string

	// WorkLike restricts to documents whose work title contains this
	// substring, case-insensitive.
	WorkLike string
}

// SearchHit is a ranked full-text match before provenance hydration.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocID is the owning document.
	DocID string

	// Score is the BM25 relevance score. Lower is better; SQLite's
	// bm25() returns negated relevance so results are ordered ascending.
	Score float64
}

// SearchResult is a hydrated hit with enough provenance to cite the source.
type SearchResult struct {
	// Chunk is the matched chunk with its text and offsets.
	Chunk Chunk `json:"chunk"`

	// RelPath and Ext identify the source file.
	RelPath string `json:"rel_path"`
	Ext     string `json:"ext"`

	// WorkID, WorkTitle, VolIdx and VolTotal carry the owning work
	// identity when the document has been linked.
	WorkID    string `json:"work_id,omitempty"`
	WorkTitle string `json:"work_title,omitempty"`
	VolIdx    *int   `json:"vol_idx,omitempty"`
	VolTotal  *int   `json:"vol_total,omitempty"`

	// Score is the relevance score of the underlying hit.
	Score float64 `json:"score"`
}

// QueryTier names one stage of the tiered fallback query strategy.
type QueryTier string

const (
	// TierAnchor is the anchor-first query built from the domain
	// vocabulary plus a fixed baseline subset.
	TierAnchor QueryTier = "anchor"

	// TierBroadOR is the disjunctive query over the question's
	// stopword-filtered tokens.
	TierBroadOR QueryTier = "or"

	// TierSingle is the single-longest-token query.
	TierSingle QueryTier = "single"
)

// QueryAttempt records one tier's literal full-text query, so an empty
// result set is diagnosable.
type QueryAttempt struct {
	Tier  QueryTier `json:"tier"`
	Query string    `json:"query"`
}

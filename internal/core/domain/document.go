package domain

import "time"

// Document represents one ingested source file.
// It is the canonical record after extraction and normalisation.
type Document struct {
	// ID is the stable identifier, derived from RelPath via DocumentID.
	// Moving a file's bytes without moving its path keeps the same ID;
	// changing the path creates a new document.
	ID string `json:"id"`

	// RelPath is the path relative to the corpus root.
	RelPath string `json:"rel_path"`

	// AbsPath is the resolved absolute path at ingestion time.
	AbsPath string `json:"abs_path"`

	// Ext is the lowercased extension without the dot ("pdf", "txt", "json").
	Ext string `json:"ext"`

	// SizeBytes is the source file size recorded at ingestion.
	SizeBytes int64 `json:"size_bytes"`

	// MTimeNS is the source file modification time in nanoseconds.
	// Together with SizeBytes it decides whether re-ingestion can skip.
	MTimeNS int64 `json:"mtime_ns"`

	// NormHash is the sha256 of the normalised text.
	NormHash string `json:"norm_hash"`

	// NormPath is where the normalised-text artifact lives on disk.
	NormPath string `json:"norm_path"`

	// WorkID groups volumes of the same logical work. Empty until linked.
	WorkID string `json:"work_id,omitempty"`

	// WorkTitle is the cleaned title the work linker derived.
	WorkTitle string `json:"work_title,omitempty"`

	// VolIdx is the volume ordinal within the work, nil when undetected.
	VolIdx *int `json:"vol_idx,omitempty"`

	// VolTotal is the declared volume count, nil when undetected.
	VolTotal *int `json:"vol_total,omitempty"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Chunk represents a retrievable unit of a document's normalised text.
type Chunk struct {
	// ID is derived from (DocID, Index, StartChar, EndChar) via ChunkID,
	// so re-chunking identical text reproduces identical IDs.
	ID string `json:"id"`

	// DocID links to the owning Document.
	DocID string `json:"doc_id"`

	// Index is the 0-based sequence order within the document.
	Index int `json:"index"`

	// StartChar and EndChar are character offsets into the normalised
	// text, half-open. They are provenance hints; once overlap has
	// occurred they are advisory rather than byte-exact.
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`

	// Text is the chunk content.
	Text string `json:"text"`
}

// Work is a logical grouping of documents that are volumes or editions
// of the same title.
type Work struct {
	// ID is derived from the normalised title via WorkID.
	ID string `json:"id"`

	// Title is the cleaned title string.
	Title string `json:"title"`

	// Docs are the member documents, if hydrated.
	Docs []Document `json:"docs,omitempty"`
}

package driving

import "context"

// IngestStatus describes what ingestion did with one file.
type IngestStatus int

const (
	// IngestSkipped means the stored record matched the file's size and
	// mtime and the normalised artifact still exists, so nothing ran.
	IngestSkipped IngestStatus = iota

	// IngestUpdated means the document was extracted, normalised,
	// re-chunked and re-indexed.
	IngestUpdated
)

// IngestReport aggregates one batch run.
type IngestReport struct {
	// RunID identifies the batch run; the failure log carries it.
	RunID string

	// OK is the number of files ingested or verified unchanged.
	OK int

	// Skipped is the subset of OK that was unchanged.
	Skipped int

	// Failed counts per-file failures (extraction errors, short text).
	Failed int

	// FailureLog is the path of the log listing each failure with its
	// cause, empty when nothing failed.
	FailureLog string
}

// Ingestor drives document ingestion.
type Ingestor interface {
	// IngestFile ingests a single file under the corpus root.
	// Idempotent: repeated calls on an unchanged file are no-ops.
	IngestFile(ctx context.Context, absPath string) (IngestStatus, error)

	// IngestDir walks a directory tree and ingests every supported
	// file. Per-file failures are isolated, logged and counted; only
	// structural failures (store unusable) abort the batch.
	IngestDir(ctx context.Context, root string) (*IngestReport, error)

	// Watch re-ingests files as they change under root until the
	// context is cancelled. Safe because ingestion is idempotent.
	Watch(ctx context.Context, root string) error
}

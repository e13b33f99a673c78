package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mbrus062/corpus/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document and chunk store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.corpus/data/manifest.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "manifest.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// UpsertDocument inserts or replaces a document record keyed by doc_id.
// Work-link columns are preserved on update; only the linker writes them.
func (s *Store) UpsertDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	doc.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents
			(doc_id, rel_path, abs_path, ext, size_bytes, mtime_ns, norm_hash, norm_path, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			rel_path = excluded.rel_path,
			abs_path = excluded.abs_path,
			ext = excluded.ext,
			size_bytes = excluded.size_bytes,
			mtime_ns = excluded.mtime_ns,
			norm_hash = excluded.norm_hash,
			norm_path = excluded.norm_path,
			updated_at = excluded.updated_at
	`, doc.ID, doc.RelPath, doc.AbsPath, doc.Ext, doc.SizeBytes, doc.MTimeNS,
		doc.NormHash, doc.NormPath, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT doc_id, rel_path, abs_path, ext, size_bytes, mtime_ns,
		       norm_hash, norm_path, work_id, work_title, vol_idx, vol_total, updated_at
		FROM documents WHERE doc_id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns document records, optionally restricted to the
// given extensions, ordered by rel_path.
func (s *Store) ListDocuments(ctx context.Context, exts ...string) ([]domain.Document, error) {
	query := `
		SELECT doc_id, rel_path, abs_path, ext, size_bytes, mtime_ns,
		       norm_hash, norm_path, work_id, work_title, vol_idx, vol_total, updated_at
		FROM documents
	`
	var args []any
	if len(exts) > 0 {
		placeholders := strings.Repeat("?,", len(exts))
		query += " WHERE ext IN (" + placeholders[:len(placeholders)-1] + ")"
		for _, e := range exts {
			args = append(args, strings.ToLower(e))
		}
	}
	query += " ORDER BY rel_path"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ReplaceChunks atomically swaps a document's chunk set. The old chunk
// rows and their index entries are deleted and the new set inserted into
// both tables inside one transaction, so readers see either the old
// chunks or the new ones, never a mixture and never a stale index.
func (s *Store) ReplaceChunks(ctx context.Context, docID string, chunks []domain.Chunk) error {
	if docID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks_fts WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("clearing index entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	insChunk, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, doc_id, chunk_idx, start_char, end_char, text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer insChunk.Close()

	insFTS, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks_fts (chunk_id, doc_id, text) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer insFTS.Close()

	for _, chunk := range chunks {
		if _, err := insChunk.ExecContext(ctx, chunk.ID, docID,
			chunk.Index, chunk.StartChar, chunk.EndChar, chunk.Text); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
		if _, err := insFTS.ExecContext(ctx, chunk.ID, docID, chunk.Text); err != nil {
			return fmt.Errorf("indexing chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves a document's chunks in sequence order.
func (s *Store) GetChunks(ctx context.Context, docID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, doc_id, chunk_idx, start_char, end_char, text
		FROM chunks WHERE doc_id = ?
		ORDER BY chunk_idx
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.DocID, &c.Index, &c.StartChar, &c.EndChar, &c.Text); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// GetChunk retrieves a single chunk by ID.
func (s *Store) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT chunk_id, doc_id, chunk_idx, start_char, end_char, text
		FROM chunks WHERE chunk_id = ?
	`, id)

	var c domain.Chunk
	if err := row.Scan(&c.ID, &c.DocID, &c.Index, &c.StartChar, &c.EndChar, &c.Text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	return &c, nil
}

// SetWorkLink writes the work identity onto a document record.
func (s *Store) SetWorkLink(ctx context.Context, docID, workID, workTitle string, volIdx, volTotal *int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET work_id = ?, work_title = ?, vol_idx = ?, vol_total = ?, updated_at = ?
		WHERE doc_id = ?
	`, workID, workTitle, nullInt(volIdx), nullInt(volTotal), time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("linking work: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking link result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search runs a ranked full-text query restricted by structural filters.
// Results are hydrated with document provenance and ordered by bm25
// score ascending (SQLite returns negated relevance: lower is better).
func (s *Store) Search(
	ctx context.Context, ftsQuery string, filters domain.SearchFilters, limit int,
) ([]domain.SearchResult, error) {
	if strings.TrimSpace(ftsQuery) == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 10
	}

	where, args := buildFilterClause(filters)

	query := fmt.Sprintf(`
		SELECT bm25(chunks_fts) AS score,
		       c.chunk_id, c.doc_id, c.chunk_idx, c.start_char, c.end_char, c.text,
		       d.rel_path, d.ext, d.work_id, d.work_title, d.vol_idx, d.vol_total
		FROM chunks_fts
		JOIN chunks c ON c.chunk_id = chunks_fts.chunk_id
		JOIN (
			SELECT doc_id, rel_path, ext, work_id, work_title, vol_idx, vol_total
			FROM documents %s
		) d ON d.doc_id = c.doc_id
		WHERE chunks_fts MATCH ?
		ORDER BY score
		LIMIT ?
	`, where)

	args = append(args, ftsQuery, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("full-text query %q: %w", ftsQuery, err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.SearchResult
		var workID, workTitle sql.NullString
		var volIdx, volTotal sql.NullInt64
		if err := rows.Scan(&r.Score,
			&r.Chunk.ID, &r.Chunk.DocID, &r.Chunk.Index,
			&r.Chunk.StartChar, &r.Chunk.EndChar, &r.Chunk.Text,
			&r.RelPath, &r.Ext, &workID, &workTitle, &volIdx, &volTotal); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.WorkID = workID.String
		r.WorkTitle = workTitle.String
		r.VolIdx = intPtr(volIdx)
		r.VolTotal = intPtr(volTotal)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}

// RebuildIndex drops and repopulates the full-text index from the chunk
// rows in one transaction. Recovery path for a mirror suspected stale;
// normal operation never needs it.
func (s *Store) RebuildIndex(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_fts"); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chunks_fts (chunk_id, doc_id, text)
		SELECT chunk_id, doc_id, text FROM chunks
	`); err != nil {
		return fmt.Errorf("repopulating index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Stats returns corpus-wide counters.
func (s *Store) Stats(ctx context.Context) (*driven.StoreStats, error) {
	stats := &driven.StoreStats{DocsByExt: make(map[string]int)}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM documents", &stats.Documents},
		{"SELECT COUNT(*) FROM chunks", &stats.Chunks},
		{"SELECT COUNT(*) FROM chunks_fts", &stats.IndexedChunks},
		{"SELECT COUNT(DISTINCT work_id) FROM documents WHERE work_id IS NOT NULL", &stats.Works},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT ext, COUNT(*) FROM documents GROUP BY ext")
	if err != nil {
		return nil, fmt.Errorf("counting by extension: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ext string
		var n int
		if err := rows.Scan(&ext, &n); err != nil {
			return nil, fmt.Errorf("scanning extension count: %w", err)
		}
		stats.DocsByExt[ext] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extension counts: %w", err)
	}

	return stats, nil
}

// ==================== Helper Functions ====================

// buildFilterClause renders the structural filters as a WHERE clause
// over the documents table.
func buildFilterClause(f domain.SearchFilters) (string, []any) {
	var conds []string
	var args []any

	if f.Ext != "" {
		conds = append(conds, "ext = ?")
		args = append(args, strings.ToLower(f.Ext))
	}
	if f.PathLike != "" {
		conds = append(conds, "lower(rel_path) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.PathLike)+"%")
	}
	if f.PathEq != "" {
		conds = append(conds, "rel_path = ?")
		args = append(args, f.PathEq)
	}
	if f.WorkID != "" {
		conds = append(conds, "work_id = ?")
		args = append(args, f.WorkID)
	}
	if f.WorkLike != "" {
		conds = append(conds, "lower(work_title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.WorkLike)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// scanDocument scans a document row via the given scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var normHash, normPath, workID, workTitle sql.NullString
	var volIdx, volTotal sql.NullInt64

	if err := scan(&doc.ID, &doc.RelPath, &doc.AbsPath, &doc.Ext,
		&doc.SizeBytes, &doc.MTimeNS, &normHash, &normPath,
		&workID, &workTitle, &volIdx, &volTotal, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	doc.NormHash = normHash.String
	doc.NormPath = normPath.String
	doc.WorkID = workID.String
	doc.WorkTitle = workTitle.String
	doc.VolIdx = intPtr(volIdx)
	doc.VolTotal = intPtr(volTotal)

	return &doc, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

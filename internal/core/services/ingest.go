package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/mbrus062/corpus/internal/chunker"
	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
	"github.com/mbrus062/corpus/internal/core/ports/driving"
	"github.com/mbrus062/corpus/internal/logger"
	"github.com/mbrus062/corpus/internal/normalize"
)

// DefaultMinTextChars is the minimum normalised length accepted during
// ingestion. Anything shorter is almost certainly a scan-only PDF or an
// empty stub, and indexing it would only pollute search results.
const DefaultMinTextChars = 200

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService ingests source files into the document store:
// extract, normalise, persist the normalised artifact, chunk, index.
type IngestService struct {
	store      driven.DocumentStore
	chunker    *chunker.Chunker
	extractors map[string]driven.Extractor
	root       string
	dataDir    string
	minText    int
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithMinTextChars overrides the minimum accepted normalised length.
func WithMinTextChars(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.minText = n
		}
	}
}

// NewIngestService creates an ingest service. root is the corpus
// source root (relative paths, and therefore document IDs, are derived
// against it); dataDir receives normalised artifacts and failure logs.
func NewIngestService(
	store driven.DocumentStore,
	ck *chunker.Chunker,
	root, dataDir string,
	extractors []driven.Extractor,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		store:      store,
		chunker:    ck,
		extractors: make(map[string]driven.Extractor),
		root:       root,
		dataDir:    dataDir,
		minText:    DefaultMinTextChars,
	}
	for _, e := range extractors {
		for _, ext := range e.Exts() {
			s.extractors[strings.ToLower(ext)] = e
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestFile ingests a single file. Unchanged files (same size and
// mtime as the stored record, normalised artifact still on disk) are
// skipped without reading the content.
func (s *IngestService) IngestFile(ctx context.Context, absPath string) (driving.IngestStatus, error) {
	ext := fileExt(absPath)
	extractor, ok := s.extractors[ext]
	if !ok {
		return 0, fmt.Errorf("no extractor for %q: %w", ext, domain.ErrUnsupportedType)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", absPath, err)
	}

	relPath := s.relPath(absPath)
	docID := domain.DocumentID(relPath)
	normPath := filepath.Join(s.dataDir, "normalized", docID+".txt")
	mtimeNS := info.ModTime().UnixNano()

	existing, err := s.store.GetDocument(ctx, docID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("looking up document: %w", err)
	}
	if existing != nil &&
		existing.SizeBytes == info.Size() &&
		existing.MTimeNS == mtimeNS &&
		fileExists(normPath) {
		logger.Debug("unchanged, skipping: %s", relPath)
		return driving.IngestSkipped, nil
	}

	raw, err := extractor.Extract(ctx, absPath)
	if err != nil {
		return 0, fmt.Errorf("extracting %s: %w", relPath, err)
	}

	norm := normalize.Normalize(raw)
	if utf8.RuneCountInString(strings.TrimSpace(norm)) < s.minText {
		return 0, fmt.Errorf("%s: %w", relPath, domain.ErrTextTooShort)
	}

	if err := os.MkdirAll(filepath.Dir(normPath), 0700); err != nil {
		return 0, fmt.Errorf("creating normalized directory: %w", err)
	}
	if err := os.WriteFile(normPath, []byte(norm), 0600); err != nil {
		return 0, fmt.Errorf("writing normalized artifact: %w", err)
	}

	doc := &domain.Document{
		ID:        docID,
		RelPath:   relPath,
		AbsPath:   absPath,
		Ext:       ext,
		SizeBytes: info.Size(),
		MTimeNS:   mtimeNS,
		NormHash:  domain.NormHash(norm),
		NormPath:  normPath,
	}
	if err := s.store.UpsertDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("saving document: %w", err)
	}

	pieces := s.chunker.Split(norm)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, p := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:        domain.ChunkID(docID, i, p.Start, p.End),
			DocID:     docID,
			Index:     i,
			StartChar: p.Start,
			EndChar:   p.End,
			Text:      p.Text,
		})
	}
	if err := s.store.ReplaceChunks(ctx, docID, chunks); err != nil {
		return 0, fmt.Errorf("saving chunks: %w", err)
	}

	logger.Debug("ingested %s (%d chunks)", relPath, len(chunks))
	return driving.IngestUpdated, nil
}

// IngestDir walks root and ingests every supported file. Per-file
// failures are logged and counted; they never abort the batch.
func (s *IngestService) IngestDir(ctx context.Context, root string) (*driving.IngestReport, error) {
	report := &driving.IngestReport{RunID: uuid.NewString()}
	var failures []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !s.supported(path) {
			return nil
		}

		status, ferr := s.IngestFile(ctx, path)
		if ferr != nil {
			report.Failed++
			failures = append(failures,
				fmt.Sprintf("%s  %s\n  %v", time.Now().Format(time.RFC3339), s.relPath(path), ferr))
			logger.Warn("ingest failed: %s: %v", s.relPath(path), ferr)
			return nil
		}

		report.OK++
		if status == driving.IngestSkipped {
			report.Skipped++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	if len(failures) > 0 {
		logPath, lerr := s.writeFailureLog(report.RunID, failures)
		if lerr != nil {
			logger.Warn("could not write failure log: %v", lerr)
		} else {
			report.FailureLog = logPath
		}
	}

	logger.Info("ingest run %s: %d ok (%d unchanged), %d failed",
		report.RunID, report.OK, report.Skipped, report.Failed)
	return report, nil
}

// Watch re-ingests files as they change under root until ctx is
// cancelled. Idempotent ingestion makes duplicate events harmless.
func (s *IngestService) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the whole tree; fsnotify is not recursive by itself.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	logger.Info("watching %s", root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("could not watch %s: %v", event.Name, err)
					}
				}
				continue
			}
			if !s.supported(event.Name) {
				continue
			}
			if _, err := s.IngestFile(ctx, event.Name); err != nil {
				logger.Warn("ingest failed: %s: %v", s.relPath(event.Name), err)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", werr)
		}
	}
}

// writeFailureLog persists one batch run's failures under the data dir.
func (s *IngestService) writeFailureLog(runID string, failures []string) (string, error) {
	logDir := filepath.Join(s.dataDir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "ingest_failures_"+runID+".log")
	content := strings.Join(failures, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("writing failure log: %w", err)
	}
	return logPath, nil
}

// relPath derives the store-relative path for a file. Slash-separated
// so document IDs are stable across platforms.
func (s *IngestService) relPath(absPath string) string {
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(filepath.Base(absPath))
	}
	return filepath.ToSlash(rel)
}

// supported reports whether a registered extractor handles the file.
func (s *IngestService) supported(path string) bool {
	_, ok := s.extractors[fileExt(path)]
	return ok
}

func fileExt(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
	"github.com/mbrus062/corpus/internal/core/ports/driving"
	"github.com/mbrus062/corpus/internal/logger"
)

// Volume markers tried in order; the first match wins.
var volPatterns = []*regexp.Regexp{
	// (Vol. 1 of 2)
	regexp.MustCompile(`(?i)\(\s*vol\.?\s*(\d+)\s*of\s*(\d+)\s*\)`),
	// Vol. 1 / Vol 02 / Vol_03
	regexp.MustCompile(`(?i)\bvol\.?\s*0*(\d+)\b`),
	// Volume I / Volume II / Volume 02
	regexp.MustCompile(`(?i)\bvolume\s+([ivxlcdm]+|\d+)\b`),
	// Vol. I of II (rare)
	regexp.MustCompile(`(?i)\bvol\.?\s*([ivxlcdm]+)\s*of\s*([ivxlcdm]+)\b`),
}

var romanNumerals = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
	"XI": 11, "XII": 12, "XIII": 13, "XIV": 14, "XV": 15,
	"XVI": 16, "XVII": 17, "XVIII": 18, "XIX": 19, "XX": 20,
}

var (
	extSuffix     = regexp.MustCompile(`\.[A-Za-z0-9]+$`)
	pageCountDot  = regexp.MustCompile(`(?i)\s*\(\s*\d+\s*p\.\s*\)\s*$`)
	pageCountBare = regexp.MustCompile(`(?i)\s*\(\s*\d+\s*p\)\s*$`)
	volOfMarker   = regexp.MustCompile(`(?i)\(\s*vol\.?\s*\d+\s*of\s*\d+\s*\)`)
	volNumMarker  = regexp.MustCompile(`(?i)\bvol\.?\s*\d+\b`)
	volumeMarker  = regexp.MustCompile(`(?i)\bvolume\s+([ivxlcdm]+|\d+)\b`)
	multiSpace    = regexp.MustCompile(`\s{2,}`)
)

// Ensure WorkLinker implements the interface.
var _ driving.WorkLinker = (*WorkLinkerService)(nil)

// WorkLinkerService clusters documents that are volumes of one logical
// work. Work identity is derived purely from filenames, so re-running
// the pass is idempotent. Heuristic best-effort: unmatched filenames
// leave the document unlinked, which degrades metadata, not search.
type WorkLinkerService struct {
	store driven.DocumentStore
}

// NewWorkLinker creates a work linker over the given store.
func NewWorkLinker(store driven.DocumentStore) *WorkLinkerService {
	return &WorkLinkerService{store: store}
}

// LinkAll scans every book-like document and writes the derived work
// identity onto its record.
func (s *WorkLinkerService) LinkAll(ctx context.Context) (*driving.WorkLinkReport, error) {
	docs, err := s.store.ListDocuments(ctx, "pdf", "txt", "json")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	report := &driving.WorkLinkReport{Scanned: len(docs)}

	for _, doc := range docs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		fn := baseName(doc.RelPath)
		title := cleanTitle(fn)
		if title == "" {
			continue
		}

		volIdx, volTotal := parseVolume(fn)
		workID := domain.WorkID(title)

		if err := s.store.SetWorkLink(ctx, doc.ID, workID, title, volIdx, volTotal); err != nil {
			return nil, fmt.Errorf("linking %s: %w", doc.RelPath, err)
		}
		report.Linked++
	}

	logger.Info("work link: %d scanned, %d linked", report.Scanned, report.Linked)
	return report, nil
}

// cleanTitle derives the work title from a filename: extension off,
// trailing page-count annotations off, volume markers off, whitespace
// collapsed, stray separators trimmed.
func cleanTitle(fn string) string {
	t := extSuffix.ReplaceAllString(fn, "")
	t = pageCountDot.ReplaceAllString(t, "")
	t = pageCountBare.ReplaceAllString(t, "")

	t = volOfMarker.ReplaceAllString(t, "")
	t = volNumMarker.ReplaceAllString(t, "")
	t = volumeMarker.ReplaceAllString(t, "")

	t = multiSpace.ReplaceAllString(t, " ")
	t = strings.Trim(t, " -_")
	return strings.TrimSpace(t)
}

// parseVolume extracts (vol_idx, vol_total) from a filename. Either or
// both may be nil when no marker matches.
func parseVolume(fn string) (volIdx, volTotal *int) {
	for _, pat := range volPatterns {
		m := pat.FindStringSubmatch(fn)
		if m == nil {
			continue
		}

		groups := m[1:]
		switch len(groups) {
		case 1:
			if n, err := strconv.Atoi(groups[0]); err == nil {
				return &n, nil
			}
			if n, ok := romanToInt(groups[0]); ok {
				return &n, nil
			}
			return nil, nil

		case 2:
			a, aErr := strconv.Atoi(groups[0])
			b, bErr := strconv.Atoi(groups[1])
			if aErr == nil && bErr == nil {
				return &a, &b
			}
			ra, raOK := romanToInt(groups[0])
			rb, rbOK := romanToInt(groups[1])
			if raOK && rbOK {
				return &ra, &rb
			}
		}
	}
	return nil, nil
}

func romanToInt(s string) (int, bool) {
	n, ok := romanNumerals[strings.ToUpper(strings.TrimSpace(s))]
	return n, ok
}

func baseName(relPath string) string {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}

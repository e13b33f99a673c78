// Package normalize canonicalises raw extracted text before chunking.
//
// Normalisation is conservative: paragraph breaks survive, horizontal
// whitespace collapses, and unbounded blank runs are capped. The output
// is deterministic and idempotent: Normalize(Normalize(x)) == Normalize(x).
package normalize

import (
	"regexp"
	"strings"
)

var (
	horizontalWS = regexp.MustCompile(`[^\S\n]+`)
	blankRuns    = regexp.MustCompile(`\n{4,}`)
)

// Normalize converts raw text to canonical form:
//
//   - all line-ending variants become a single "\n"
//   - runs of non-newline whitespace collapse to one space
//   - runs of 4+ newlines are capped at exactly 3
//   - outer whitespace is trimmed
//   - the result ends with exactly one trailing newline
//
// It accepts any string, including empty, and never fails.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalWS.ReplaceAllString(s, " ")
	s = blankRuns.ReplaceAllString(s, "\n\n\n")
	return strings.TrimSpace(s) + "\n"
}

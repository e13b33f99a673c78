package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFocusTerm(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"plain term", "providence", "providence"},
		{"skips operators", "NOT grace OR election", "grace"},
		{"skips short tokens", "of an election", "election"},
		{"strips quotes", `"free will"`, "free"},
		{"strips punctuation", "grace!", "grace"},
		{"nothing qualifies", "a of to", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FocusTerm(tt.query))
		})
	}
}

func TestSnippet_HighlightsMatches(t *testing.T) {
	text := "The doctrine of providence teaches that God governs all events."

	got := Snippet(text, "providence", 220)
	assert.Equal(t, "The doctrine of [[providence]] teaches that God governs all events.", got)
}

func TestSnippet_CaseInsensitive(t *testing.T) {
	got := Snippet("Providence rules; providence comforts.", "providence", 220)
	assert.Equal(t, "[[Providence]] rules; [[providence]] comforts.", got)
}

func TestSnippet_WindowsLongText(t *testing.T) {
	long := strings.Repeat("x ", 300) + "providence" + strings.Repeat(" y", 300)

	got := Snippet(long, "providence", 20)
	assert.True(t, strings.HasPrefix(got, "…"))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Contains(t, got, "[[providence]]")
	// 20 chars of context each side plus the highlighted term and ellipses.
	assert.Less(t, len(got), 80)
}

func TestSnippet_TermAbsent(t *testing.T) {
	got := Snippet("Nothing relevant here.", "providence", 220)
	assert.Equal(t, "Nothing relevant here.", got)
}

func TestSnippet_NoTermTruncatesHead(t *testing.T) {
	long := strings.Repeat("word ", 200)

	got := Snippet(long, "", 50)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len(got), 100+len("…"))
}

func TestSnippet_WindowEdgesKeepRunesWhole(t *testing.T) {
	// Both window edges land mid-codepoint unless cuts are clamped:
	// the leading "a" offsets the two-byte runes so byte 86 and byte
	// 128 each fall inside one.
	long := "a" + strings.Repeat("é", 50) + " providence " + strings.Repeat("û", 50)

	got := Snippet(long, "providence", 16)
	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "[[providence]]")
}

func TestSnippet_HeadTruncationKeepsRunesWhole(t *testing.T) {
	// 32 bytes is not a multiple of the three-byte rune width.
	got := Snippet(strings.Repeat("界", 100), "", 16)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestSnippet_CollapsesWhitespace(t *testing.T) {
	got := Snippet("grace\n\n  and\tpeace", "grace", 220)
	assert.Equal(t, "[[grace]] and peace", got)
}

func TestSnippet_Empty(t *testing.T) {
	assert.Equal(t, "", Snippet("", "anything", 220))
}

package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSnippetWindow is the context shown on each side of a match.
const DefaultSnippetWindow = 220

var focusStrip = regexp.MustCompile(`[^0-9A-Za-z_-]`)

// FocusTerm picks the term a snippet should center on: the first token
// of the query that is not an operator and is at least three characters
// after stripping punctuation. Empty when nothing qualifies.
func FocusTerm(query string) string {
	q := strings.NewReplacer(`"`, " ", "'", " ").Replace(query)
	for _, tok := range strings.Fields(q) {
		switch strings.ToUpper(tok) {
		case "AND", "OR", "NOT":
			continue
		}
		tok = focusStrip.ReplaceAllString(tok, "")
		if len(tok) >= 3 {
			return tok
		}
	}
	return ""
}

// Snippet returns a one-line excerpt of text centered on the first
// case-insensitive occurrence of term, with width characters of context
// on each side. Occurrences of term inside the window are wrapped in
// [[...]], and truncated edges get an ellipsis. Without a term, or when
// the term does not occur, the head of the text is returned instead.
func Snippet(text, term string, width int) string {
	if text == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultSnippetWindow
	}

	clean := strings.Join(strings.Fields(text), " ")
	if term == "" {
		return head(clean, 2*width)
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return head(clean, 2*width)
	}
	loc := re.FindStringIndex(clean)
	if loc == nil {
		return head(clean, 2*width)
	}

	start := runeFloor(clean, loc[0]-width)
	end := runeFloor(clean, loc[1]+width)

	window := re.ReplaceAllStringFunc(clean[start:end], func(m string) string {
		return "[[" + m + "]]"
	})

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(window)
	if end < len(clean) {
		b.WriteString("…")
	}
	return b.String()
}

// head truncates to at most n bytes with an ellipsis when anything was
// cut, never splitting a rune.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:runeFloor(s, n)] + "…"
}

// runeFloor clamps i to [0, len(s)] and backs it off to the nearest
// rune boundary so slicing at i cannot split a multi-byte character.
func runeFloor(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// Package chunker splits normalised text into overlapping,
// paragraph-aware pieces with character-offset provenance.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultTargetSize is the default number of characters per chunk.
const DefaultTargetSize = 2500

// DefaultOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultOverlap = 200

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Piece is one emitted chunk of text with its character span in the
// normalised input. Offsets are half-open and advisory once overlap has
// occurred.
type Piece struct {
	Text  string
	Start int
	End   int
}

// Chunker accumulates paragraphs up to a target size, seeding each new
// buffer with an overlap tail from the previous chunk. A single paragraph
// larger than the target is hard-split into target-size slices.
type Chunker struct {
	targetSize int
	overlap    int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetSize sets the chunk target size in characters.
func WithTargetSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// Zero disables overlap entirely.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below the target size
	if c.overlap >= c.targetSize {
		c.overlap = c.targetSize / 4
	}

	return c
}

// Split chunks normalised text into ordered pieces. Empty input yields
// no pieces; text shorter than the target yields exactly one piece
// spanning the whole text. Deterministic: identical input produces
// identical output.
func (c *Chunker) Split(text string) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var pieces []Piece
	var buf []rune
	start := 0

	emit := func(runes []rune, s int) {
		pieces = append(pieces, Piece{Text: string(runes), Start: s, End: s + len(runes)})
	}

	for _, para := range paragraphBreak.Split(text, -1) {
		p := []rune(strings.TrimSpace(para))
		if len(p) == 0 {
			continue
		}

		candidate := join(buf, p)
		if len(candidate) <= c.targetSize {
			buf = candidate
			continue
		}

		if len(buf) > 0 {
			end := start + len(buf)
			emit(buf, start)

			// Seed the next buffer with the previous chunk's tail.
			var tail []rune
			if c.overlap > 0 && len(buf) > c.overlap {
				tail = buf[len(buf)-c.overlap:]
			}
			buf = trim(join(tail, p))
			start = end - len(tail)
			continue
		}

		// A single paragraph beyond the target: hard-split into
		// target-size slices with overlap between consecutive slices.
		big := p
		for len(big) > c.targetSize {
			part := big[:c.targetSize]
			end := start + len(part)
			emit(part, start)
			big = big[c.targetSize-c.overlap:]
			start = end - c.overlap
		}
		buf = big
	}

	if len(buf) > 0 {
		emit(buf, start)
	}

	return pieces
}

// join concatenates two paragraph buffers with a blank-line separator.
func join(a, b []rune) []rune {
	if len(a) == 0 {
		out := make([]rune, len(b))
		copy(out, b)
		return out
	}
	out := make([]rune, 0, len(a)+2+len(b))
	out = append(out, a...)
	out = append(out, '\n', '\n')
	out = append(out, b...)
	return out
}

func trim(r []rune) []rune {
	return []rune(strings.TrimSpace(string(r)))
}

// Package jsontext extracts prose from text-bearing JSON documents.
//
// The flattening is best-effort and tuned for digital-library exports:
// objects are probed for conventional payload keys (text, he, en,
// content) before falling back to a full value scan, and nested arrays
// are walked in order. Each extracted string becomes one paragraph.
package jsontext

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// payloadKeys are the object keys that conventionally hold the text.
var payloadKeys = []string{"text", "he", "en", "content"}

// Extractor handles structured text-bearing JSON documents.
type Extractor struct{}

// New creates a new JSON text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Exts returns the extensions this extractor handles.
func (e *Extractor) Exts() []string {
	return []string{"json"}
}

// Extract parses the file and flattens it into paragraphs joined by
// blank lines, preserving document order.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: parsing %s: %w", domain.ErrExtraction, path, err)
	}

	paras := Flatten(doc)
	return strings.Join(paras, "\n\n"), nil
}

// Flatten walks an arbitrary JSON value and collects paragraph strings.
func Flatten(v any) []string {
	var out []string
	flattenInto(v, &out)
	return out
}

func flattenInto(v any, out *[]string) {
	switch val := v.(type) {
	case nil:
		// skip nulls
	case string:
		if t := strings.TrimSpace(val); t != "" {
			*out = append(*out, t)
		}
	case float64:
		*out = append(*out, strconv.FormatFloat(val, 'g', -1, 64))
	case bool:
		*out = append(*out, strconv.FormatBool(val))
	case []any:
		for _, item := range val {
			flattenInto(item, out)
		}
	case map[string]any:
		// Prefer conventional payload keys; the first present wins.
		for _, k := range payloadKeys {
			if payload, ok := val[k]; ok {
				flattenInto(payload, out)
				return
			}
		}
		// Fallback: scan every value. Keys are sorted so extraction
		// stays deterministic across runs.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenInto(val[k], out)
		}
	default:
		*out = append(*out, fmt.Sprintf("%v", val))
	}
}

// Package textnorm canonicalizes text fragments for comparison.
//
// Normalization is lossy and comparison-only: whitespace runs (including
// newlines and the ideographic space) collapse to a single ASCII space with
// leading/trailing whitespace trimmed, and full-width Latin letters, digits
// and punctuation fold to their half-width equivalents. The normalized form
// is never inserted into a document or reported back to a caller; it only
// serves to locate candidate matches.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Span is the byte range in the original text that produced one rune of the
// normalized text.
type Span struct {
	Start int
	End   int
}

// Normalize returns the canonical comparison form of s. The transform is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	out, _ := NormalizeWithSpans(s)
	return out
}

// NormalizeWithSpans normalizes s and returns, for every rune of the
// normalized output, the byte range of the original text it was derived
// from. A collapsed whitespace run maps to the full byte range of the run,
// so a normalized match that spans it recovers the run verbatim from the
// original buffer.
func NormalizeWithSpans(s string) (string, []Span) {
	var b strings.Builder
	b.Grow(len(s))
	spans := make([]Span, 0, len(s)/2)

	wsStart := -1
	wsEnd := 0
	pos := 0
	for _, r := range s {
		size := len(string(r))
		if unicode.IsSpace(r) {
			if wsStart < 0 {
				wsStart = pos
			}
			wsEnd = pos + size
			pos += size
			continue
		}
		if wsStart >= 0 {
			// Interior runs become one space; a leading run is trimmed.
			if b.Len() > 0 {
				b.WriteByte(' ')
				spans = append(spans, Span{Start: wsStart, End: wsEnd})
			}
			wsStart = -1
		}
		for _, folded := range foldRune(r) {
			b.WriteRune(folded)
			spans = append(spans, Span{Start: pos, End: pos + size})
		}
		pos += size
	}
	// A trailing whitespace run is trimmed.
	return b.String(), spans
}

// foldRune maps full-width forms to their half-width equivalents and
// half-width katakana to its canonical wide form, leaving everything else
// untouched.
func foldRune(r rune) string {
	folded, _, err := transform.String(width.Fold, string(r))
	if err != nil || folded == "" {
		return string(r)
	}
	return folded
}

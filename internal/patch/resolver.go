package patch

import (
	"strings"
	"unicode/utf8"

	"github.com/tokoroten/NovelDrive-sub008/internal/bitap"
	"github.com/tokoroten/NovelDrive-sub008/internal/similarity"
	"github.com/tokoroten/NovelDrive-sub008/internal/textnorm"
)

// Window padding around a fuzzy match, in runes, when refining it against
// the original text.
const (
	refineBefore = 10
	refineAfter  = 20
)

// FindBestMatch locates oldText in content, trying exact, normalized-exact
// and fuzzy matching in that order; the first tier that yields a candidate
// at or above threshold wins. The returned candidate addresses the original
// content, never its normalized form.
func FindBestMatch(content, oldText string, threshold float64) (Candidate, bool) {
	if idx := strings.Index(content, oldText); idx >= 0 {
		return Candidate{
			Index:       idx,
			Similarity:  1.0,
			MatchedText: oldText,
			Strategy:    StrategyExact,
		}, true
	}

	normContent, spans := textnorm.NormalizeWithSpans(content)
	normNeedle := textnorm.Normalize(oldText)
	if normNeedle == "" || normContent == "" {
		return Candidate{}, false
	}

	// Normalized matches are deliberately discounted below a true exact
	// match, so a strict threshold can rule them out.
	if cand, ok := normalizedMatch(content, normContent, normNeedle, spans); ok && cand.Similarity >= threshold {
		return cand, true
	}

	return fuzzyMatch(content, oldText, normContent, normNeedle, spans, threshold)
}

// normalizedMatch searches the normalized content for the normalized needle
// and maps the hit back to original byte offsets through the span table.
func normalizedMatch(content, normContent, normNeedle string, spans []textnorm.Span) (Candidate, bool) {
	byteIdx := strings.Index(normContent, normNeedle)
	if byteIdx < 0 {
		return Candidate{}, false
	}
	runeStart := utf8.RuneCountInString(normContent[:byteIdx])
	runeLen := utf8.RuneCountInString(normNeedle)
	origStart := spans[runeStart].Start
	origEnd := spans[runeStart+runeLen-1].End
	return Candidate{
		Index:       origStart,
		Similarity:  0.95,
		MatchedText: content[origStart:origEnd],
		Strategy:    StrategyNormalized,
	}, true
}

// fuzzyMatch runs the bit-parallel locator over the normalized text, maps
// the hit back to the original, then scans a bounded window around it for
// the best-scoring literal substring of roughly the needle's length.
func fuzzyMatch(content, oldText, normContent, normNeedle string, spans []textnorm.Span, threshold float64) (Candidate, bool) {
	locator := bitap.New()
	locator.MaxErrorScore = 1 - threshold

	// Edits carry no expected location, so the locator searches the whole
	// document without a proximity penalty.
	m, ok := locator.Find([]rune(normContent), []rune(normNeedle), -1)
	if !ok || m.Score < threshold || m.Index >= len(spans) {
		return Candidate{}, false
	}
	origStart := spans[m.Index].Start

	origRunes := []rune(content)
	offsets := runeByteOffsets(content)
	startRune := utf8.RuneCountInString(content[:origStart])
	needleLen := utf8.RuneCountInString(oldText)

	winStart := startRune - refineBefore
	if winStart < 0 {
		winStart = 0
	}
	winEnd := startRune + needleLen + refineAfter
	if winEnd > len(origRunes) {
		winEnd = len(origRunes)
	}
	minLen := needleLen / 2
	if minLen < 1 {
		minLen = 1
	}
	maxLen := needleLen + needleLen/2

	bestScore := -1.0
	bestStart, bestLen := 0, 0
	for start := winStart; start < winEnd; start++ {
		for length := minLen; length <= maxLen && start+length <= len(origRunes); length++ {
			score := similarity.Ratio(string(origRunes[start:start+length]), oldText)
			if score >= threshold && score > bestScore {
				bestScore = score
				bestStart = start
				bestLen = length
			}
		}
	}
	if bestScore < 0 {
		return Candidate{}, false
	}
	return Candidate{
		Index: offsets[bestStart],
		// Both the locator and the refinement carry uncertainty.
		Similarity:  bestScore * m.Score,
		MatchedText: string(origRunes[bestStart : bestStart+bestLen]),
		Strategy:    StrategyFuzzy,
	}, true
}

// runeByteOffsets returns the byte offset of every rune of s, plus a final
// entry for len(s).
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

// Package bitap implements bit-parallel approximate substring search.
//
// The locator finds the start offset of a pattern inside a haystack while
// tolerating a bounded number of insertions, deletions and substitutions.
// Match state for every window position is held in a single machine word per
// error level, so cost is bounded by pattern length times the error budget
// rather than a brute-force sweep over substring lengths.
package bitap

// maxPatternRunes is the widest pattern the bitmask can track. Longer
// patterns are scanned by their prefix; callers refine the final span
// against the full pattern afterwards.
const maxPatternRunes = 64

// Match is the best-scoring location of a pattern in a haystack. Index is a
// rune offset; Score follows the similarity convention, 1 minus the error
// rate, so higher is better. Text is the pattern-sized slice of the haystack
// at the match.
type Match struct {
	Index int
	Score float64
	Text  string
}

// Locator holds the search tuning knobs.
type Locator struct {
	// MaxErrorScore is the largest score (error rate, plus the proximity
	// penalty when a location hint is given) still accepted as a match.
	MaxErrorScore float64
	// Distance scales the proximity penalty: a match this many runes away
	// from the expected location costs as much as a full mismatch. Zero
	// requires the match to sit exactly at the expected location. The
	// penalty only applies when Find is given a location hint.
	Distance int
}

// New returns a Locator with the default error budget and proximity scale.
func New() *Locator {
	return &Locator{MaxErrorScore: 0.5, Distance: 1000}
}

// Find locates pattern in haystack near the expected rune offset loc. A
// negative loc means no expected location: the whole haystack is searched
// and positions are scored by error rate alone, so a match at the end of a
// long document costs the same as one at the start. It runs the
// bit-parallel recurrence for successive error counts d = 0, 1, 2, … and
// stops early once d+1 errors cannot beat the best score seen so far. The
// second return value is false when no position scores within
// MaxErrorScore.
func (l *Locator) Find(haystack, pattern []rune, loc int) (Match, bool) {
	if len(pattern) == 0 || len(haystack) == 0 {
		return Match{}, false
	}
	if len(pattern) > maxPatternRunes {
		pattern = pattern[:maxPatternRunes]
	}
	hinted := loc >= 0
	if !hinted {
		loc = 0
	} else if loc > len(haystack) {
		loc = len(haystack)
	}

	score := func(errors, x int) float64 {
		accuracy := float64(errors) / float64(len(pattern))
		if !hinted {
			return accuracy
		}
		proximity := x - loc
		if proximity < 0 {
			proximity = -proximity
		}
		if l.Distance == 0 {
			if proximity == 0 {
				return accuracy
			}
			return 1.0
		}
		return accuracy + float64(proximity)/float64(l.Distance)
	}

	alphabet := buildAlphabet(pattern)
	matchMask := uint64(1) << uint(len(pattern)-1)

	best := l.MaxErrorScore
	bestLoc := -1

	binMax := len(pattern) + len(haystack)
	var lastRD []uint64
	for d := 0; d < len(pattern); d++ {
		// Binary-search the widest window around loc that can still
		// score within the current best at this error count.
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if score(d, loc+binMid) <= best {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid
		start := maxInt(1, loc-binMid+1)
		finish := minInt(loc+binMid, len(haystack)) + len(pattern)

		rd := make([]uint64, finish+2)
		rd[finish+1] = (1 << uint(d)) - 1
		for j := finish; j >= start; j-- {
			var charMatch uint64
			if j-1 < len(haystack) {
				charMatch = alphabet[haystack[j-1]]
			}
			if d == 0 {
				rd[j] = ((rd[j+1] << 1) | 1) & charMatch
			} else {
				rd[j] = ((rd[j+1]<<1)|1)&charMatch |
					(((lastRD[j+1] | lastRD[j]) << 1) | 1) |
					lastRD[j+1]
			}
			if rd[j]&matchMask != 0 {
				candidate := score(d, j-1)
				if candidate <= best {
					best = candidate
					bestLoc = j - 1
					if bestLoc > loc {
						// Found past loc; the mirror window before loc
						// could still hold something closer.
						start = maxInt(1, 2*loc-bestLoc)
					} else {
						break
					}
				}
			}
		}
		if score(d+1, loc) > best {
			break
		}
		lastRD = rd
	}

	if bestLoc < 0 {
		return Match{}, false
	}
	end := bestLoc + len(pattern)
	if end > len(haystack) {
		end = len(haystack)
	}
	sim := 1 - best
	if sim < 0 {
		sim = 0
	}
	return Match{Index: bestLoc, Score: sim, Text: string(haystack[bestLoc:end])}, true
}

// buildAlphabet sets, for each rune of the pattern, the bit of every
// position where it occurs.
func buildAlphabet(pattern []rune) map[rune]uint64 {
	alphabet := make(map[rune]uint64, len(pattern))
	for i, r := range pattern {
		alphabet[r] |= 1 << uint(len(pattern)-i-1)
	}
	return alphabet
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

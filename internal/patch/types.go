// Package patch locates and applies fuzzy text replacements.
//
// A batch of {oldText, newText} edits is matched against an immutable
// document using a three-tier strategy (exact, normalized-exact, fuzzy) and
// the accepted matches are spliced into a fresh copy of the document. The
// quoted oldText need not occur verbatim: whitespace drift, full-width
// punctuation and small wording drift are tolerated up to a similarity
// threshold.
package patch

// DefaultThreshold is the minimum similarity used when a request does not
// carry its own.
const DefaultThreshold = 0.75

// Strategy names the match tier that produced a candidate.
type Strategy string

const (
	StrategyExact      Strategy = "exact"
	StrategyNormalized Strategy = "normalized"
	StrategyFuzzy      Strategy = "fuzzy"
)

// Edit is one requested replacement. OldText is what the generator believes
// the document contains; it is matched approximately.
type Edit struct {
	OldText string `json:"oldText"`
	NewText string `json:"newText"`
}

// Candidate is an accepted match, always expressed in byte offsets of the
// original, non-normalized document: content[Index:Index+len(MatchedText)]
// equals MatchedText.
type Candidate struct {
	Index       int
	Similarity  float64
	MatchedText string
	Strategy    Strategy
}

// Outcome reports what happened to a single edit. Index and Similarity are
// pointers so an unapplied edit serializes without them.
type Outcome struct {
	OldText     string   `json:"oldText"`
	NewText     string   `json:"newText"`
	Applied     bool     `json:"applied"`
	Index       *int     `json:"index,omitempty"`
	Similarity  *float64 `json:"similarity,omitempty"`
	MatchedText string   `json:"matchedText,omitempty"`
	Strategy    Strategy `json:"strategy,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Result is the outcome of applying a batch: the new document content and
// one Outcome per requested edit, in request order.
type Result struct {
	Content  string    `json:"content"`
	Outcomes []Outcome `json:"results"`
}

package patch

import (
	"context"
	"fmt"
	"sort"
)

// Apply resolves every edit against content and splices the accepted
// matches into a new string. All matches are computed against the pre-edit
// document; application then proceeds in descending index order so an
// applied edit never shifts the offsets of the ones still pending. Outcomes
// come back in the same order as edits.
//
// A below-threshold edit is not an error: it is recorded as Applied=false
// and the batch continues. The context is checked between per-edit
// resolutions, the only natural suspension point in the pipeline.
func Apply(ctx context.Context, content string, edits []Edit, threshold float64) (Result, error) {
	outcomes := make([]Outcome, len(edits))
	type placed struct {
		cand    Candidate
		newText string
	}
	var matched []placed

	for i, edit := range edits {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		cand, ok := FindBestMatch(content, edit.OldText, threshold)
		if !ok {
			outcomes[i] = Outcome{
				OldText: edit.OldText,
				NewText: edit.NewText,
				Applied: false,
				Error:   fmt.Sprintf("no match for %q at or above threshold %.2f", clip(edit.OldText), threshold),
			}
			continue
		}
		index := cand.Index
		sim := cand.Similarity
		outcomes[i] = Outcome{
			OldText:     edit.OldText,
			NewText:     edit.NewText,
			Applied:     true,
			Index:       &index,
			Similarity:  &sim,
			MatchedText: cand.MatchedText,
			Strategy:    cand.Strategy,
		}
		matched = append(matched, placed{cand: cand, newText: edit.NewText})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].cand.Index > matched[j].cand.Index
	})

	buf := content
	for _, p := range matched {
		start := p.cand.Index
		end := start + len(p.cand.MatchedText)
		if end > len(buf) {
			// Only possible when an accepted match overlaps one already
			// applied; positional safety still holds for the rest.
			end = len(buf)
		}
		buf = buf[:start] + p.newText + buf[end:]
	}
	return Result{Content: buf, Outcomes: outcomes}, nil
}

// clip shortens oldText for use in a per-edit error message.
func clip(s string) string {
	const limit = 60
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

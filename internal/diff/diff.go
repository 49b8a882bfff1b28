// Package diff renders line-level diffs of a document before and after a
// patch batch, for the frontend review pane.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

// Line is one row of the review diff. OldLine/NewLine are 1-based and zero
// when the line does not exist on that side.
type Line struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// MaxLines caps how much diff the engine is willing to render for one
// preview.
const MaxLines = 5000

// Lines diffs before and after at line granularity.
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lineArray)

	var out []Line
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		for _, text := range splitChunk(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Line{Type: LineContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				out = append(out, Line{Type: LineRemoved, Text: text, OldLine: oldLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				out = append(out, Line{Type: LineAdded, Text: text, NewLine: newLine})
				newLine++
			}
		}
	}
	return out
}

// LinesWithLimit is Lines with a size guard; the bool reports whether the
// diff was too large to render.
func LinesWithLimit(before, after string, maxLines int) ([]Line, bool) {
	if maxLines <= 0 {
		maxLines = MaxLines
	}
	if lineCount(before)+lineCount(after) > maxLines {
		return nil, true
	}
	return Lines(before, after), false
}

func splitChunk(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func lineCount(value string) int {
	if value == "" {
		return 0
	}
	return strings.Count(value, "\n") + 1
}

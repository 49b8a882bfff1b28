package logging

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxLoggedString bounds how much of any string value lands in the debug
// log. Patch requests carry whole chapters; logging them verbatim would
// bloat the log and leak manuscript text into a file the author never sees.
const maxLoggedString = 80

// SummarizeJSON renders a raw request payload for logging with every long
// string value truncated.
func SummarizeJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Truncate(strings.TrimSpace(string(raw)))
	}
	return SummarizeAny(payload)
}

// SummarizeAny walks maps and slices, truncating string values in place.
func SummarizeAny(value any) any {
	switch typed := value.(type) {
	case string:
		return Truncate(typed)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = SummarizeAny(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = SummarizeAny(val)
		}
		return out
	default:
		return value
	}
}

// Truncate shortens s to maxLoggedString runes, annotating the cut with the
// original length.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxLoggedString {
		return s
	}
	runes := []rune(s)
	return fmt.Sprintf("%s…(%d chars)", string(runes[:maxLoggedString]), len(runes))
}

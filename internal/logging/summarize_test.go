package logging

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	short := "short enough"
	if got := Truncate(short); got != short {
		t.Fatalf("short string changed: %q", got)
	}
	long := strings.Repeat("あ", 200)
	got := Truncate(long)
	if !strings.Contains(got, "(200 chars)") {
		t.Fatalf("truncated string missing length note: %q", got)
	}
	if len([]rune(got)) >= 200 {
		t.Fatalf("string not truncated")
	}
}

func TestSummarizeJSON(t *testing.T) {
	payload := map[string]any{
		"content": strings.Repeat("x", 500),
		"diffs": []any{
			map[string]any{"oldText": strings.Repeat("y", 500), "newText": "short"},
		},
		"threshold": 0.8,
	}
	raw, _ := json.Marshal(payload)
	out, ok := SummarizeJSON(raw).(map[string]any)
	if !ok {
		t.Fatalf("expected a map")
	}
	if !strings.Contains(out["content"].(string), "(500 chars)") {
		t.Fatalf("content not truncated: %v", out["content"])
	}
	diff := out["diffs"].([]any)[0].(map[string]any)
	if diff["newText"] != "short" {
		t.Fatalf("short value altered: %v", diff["newText"])
	}
	if out["threshold"] != 0.8 {
		t.Fatalf("non-string value altered: %v", out["threshold"])
	}
}

func TestSummarizeJSONInvalid(t *testing.T) {
	if got := SummarizeJSON(json.RawMessage("not json")); got != "not json" {
		t.Fatalf("got %v", got)
	}
}

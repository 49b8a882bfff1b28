package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func waitForOutput(t *testing.T, output *bytes.Buffer) string {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if line := strings.TrimSpace(output.String()); line != "" {
			return line
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected output")
	return ""
}

func TestServerHandlesRequest(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"Ping\",\"api_version\":\"1\"}\n"
	var output bytes.Buffer
	server := NewServer("1", strings.NewReader(input), &output, nil)
	server.Register("Ping", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		return map[string]any{"pong": true}, nil
	})

	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	var resp Response
	if err := json.Unmarshal([]byte(waitForOutput(t, &output)), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if result := resp.Result.(map[string]any); result["pong"] != true {
		t.Fatalf("expected pong true")
	}
}

func TestServerRejectsUnknownMethod(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"Nope\"}\n"
	var output bytes.Buffer
	server := NewServer("1", strings.NewReader(input), &output, nil)
	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	var resp Response
	if err := json.Unmarshal([]byte(waitForOutput(t, &output)), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil || !strings.Contains(resp.Error.Message, "method not found") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestServerRecoversHandlerPanic(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"id\":3,\"method\":\"Boom\"}\n"
	var output bytes.Buffer
	server := NewServer("1", strings.NewReader(input), &output, nil)
	server.Register("Boom", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		panic("deliberate fault")
	})
	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	var resp Response
	if err := json.Unmarshal([]byte(waitForOutput(t, &output)), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil || !strings.Contains(resp.Error.Message, "deliberate fault") {
		t.Fatalf("resp = %+v", resp)
	}
	data, ok := resp.Error.Data.(map[string]any)
	if !ok || data["stack"] == "" {
		t.Fatalf("panic response missing stack: %+v", resp.Error.Data)
	}
}

func TestServerNotify(t *testing.T) {
	var output bytes.Buffer
	server := NewServer("1", strings.NewReader(""), &output, nil)
	server.Notify("PatchProgress", map[string]any{"message": "processing"})
	var note Notification
	if err := json.Unmarshal([]byte(strings.TrimSpace(output.String())), &note); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if note.Method != "PatchProgress" {
		t.Fatalf("method = %q", note.Method)
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWrite_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	Info("request", map[string]any{"endpoint": "persons", "status": 200})
	Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if got["msg"] != "request" || got["level"] != "info" || got["endpoint"] != "persons" {
		t.Fatalf("unexpected entry: %v", got)
	}
	if _, ok := got["ts"]; !ok {
		t.Fatalf("missing ts field: %v", got)
	}
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	SetDebug(true)
	defer SetDebug(false)
	Debug("visible", nil)

	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}

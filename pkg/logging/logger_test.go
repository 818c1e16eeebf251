package logging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestContextLoggerAttachesSessionAndHotel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json", Output: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	ctx := WithSessionID(WithHotelID(context.Background(), 4), "sess-1")
	l.WithComponent("drafts").With(ctx).Info("hotel opened", String("slug", "taj-palace"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["msg"] != "hotel opened" {
		t.Errorf("msg = %v", got["msg"])
	}
	if got["component"] != "drafts" {
		t.Errorf("component = %v", got["component"])
	}
	if got["hotel_id"] != float64(4) {
		t.Errorf("hotel_id = %v", got["hotel_id"])
	}
	if got["session_id"] != "sess-1" {
		t.Errorf("session_id = %v", got["session_id"])
	}
	if got["slug"] != "taj-palace" {
		t.Errorf("slug = %v", got["slug"])
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(LogConfig{Level: LevelWarn, Format: "json", Output: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Debug("dropped")
	l.Info("dropped too")
	l.Error("publish failed", errors.New("boom"))
	l.Close()

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected only the error line, got %d", len(lines))
	}
	if lines[0]["error"] != "boom" {
		t.Errorf("error = %v", lines[0]["error"])
	}
	if lines[0]["level"] != "ERROR" {
		t.Errorf("level = %v", lines[0]["level"])
	}
}

func TestAsyncLoggerFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "async.log")
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "json", Output: path, EnableAsync: true})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	for i := 0; i < 50; i++ {
		l.Info("tick", Int("i", i))
	}
	l.Close()
	// second close is a no-op
	l.Close()

	if n := len(readLines(t, path)); n != 50 {
		t.Fatalf("expected 50 lines, got %d", n)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"error":   LevelError,
		"trace":   LevelTrace,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNop()
	l.Error("nothing", errors.New("x"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

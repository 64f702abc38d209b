package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("log line %q is not json: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestFileSinks(t *testing.T) {
	dir := t.TempDir()
	stdPath := filepath.Join(dir, "logs", "std.log")
	errPath := filepath.Join(dir, "logs", "err.log")

	l, err := New(true, stdPath, errPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Logf("read %s", "/a.txt")
	l.Errorf("read %s failed", "/b.txt")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	std := readLines(t, stdPath)
	if len(std) != 1 || std[0]["message"] != "read /a.txt" || std[0]["level"] != "info" {
		t.Fatalf("unexpected std log: %v", std)
	}
	errs := readLines(t, errPath)
	if len(errs) != 1 || errs[0]["message"] != "read /b.txt failed" || errs[0]["level"] != "error" {
		t.Fatalf("unexpected err log: %v", errs)
	}
}

func TestVerboseGatesStandardLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all.log")

	l, err := New(false, path, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Log("hidden")
	l.Error("shown")
	_ = l.Close()

	lines := readLines(t, path)
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Fatalf("expected only the error entry, got %v", lines)
	}
}

func TestDiscard(t *testing.T) {
	l, err := New(true, "discard", "discard")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Log("nothing")
	l.Errorf("nothing %d", 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(true, filepath.Join(blocker, "std.log"), ""); err == nil {
		t.Fatalf("expected error when log directory is a file")
	}
}

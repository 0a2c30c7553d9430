package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mcnpath/internal/config"
)

func TestPrintfAppendsTimestampedLines(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Printf("render: preset %s", "simple-nest")
	l.Printf("trailing newline trimmed\n")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, config.Dir, "logs", "mcnpath.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2:\n%s", len(lines), body)
	}
	if !strings.HasPrefix(lines[0], "[") || !strings.Contains(lines[0], "render: preset simple-nest") {
		t.Errorf("line 0 = %q, want timestamped render entry", lines[0])
	}
	if strings.Contains(lines[1], "\n") {
		t.Errorf("line 1 kept its newline: %q", lines[1])
	}
}

func TestReopenAppendsInsteadOfTruncating(t *testing.T) {
	dir := t.TempDir()
	first, err := New(dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	first.Printf("first session")
	first.Close()

	second, err := New(dir)
	if err != nil {
		t.Fatalf("reopen logger: %v", err)
	}
	second.Printf("second session")
	second.Close()

	body, err := os.ReadFile(filepath.Join(dir, config.Dir, "logs", "mcnpath.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(body), "first session") || !strings.Contains(string(body), "second session") {
		t.Errorf("log should hold both sessions:\n%s", body)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Printf("ignored")
	if err := l.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}

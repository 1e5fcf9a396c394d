package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintfWritesWhenOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	Open(path)
	defer Close()

	if !Enabled() {
		t.Fatal("expected debug logging to be enabled")
	}
	Printf("saved %d records", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "saved 3 records") {
		t.Fatalf("log missing message: %q", data)
	}
}

func TestPrintfNoopWhenClosed(t *testing.T) {
	Close()
	if Enabled() {
		t.Fatal("expected debug logging to be disabled")
	}
	Printf("dropped")
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func TestSetup_WritesJSONToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup(&buf, "debug")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	log.Debug("merged feed page", "feed", "home", "added", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "merged feed page" || entry["feed"] != "home" || entry["added"] != float64(3) {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestSetup_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup(&buf, "warn")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	if _, err := ParseLevel("verbose"); !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmy.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	log, err := Setup(f, "info")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	log.Info("hello")
}

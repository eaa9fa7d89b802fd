// Package logging tests cover level parsing and logger construction.
package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestParseLevel maps the accepted strings and rejects junk.
func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"err":     slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

// TestNewWritesToWriter confirms records land on the given writer at
// the configured level.
func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	lg, closer, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if closer != nil {
		t.Fatalf("unexpected closer for plain writer")
	}
	lg.Info("dropped")
	lg.Warn("kept", "k", "v")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record not filtered: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn record missing: %s", out)
	}
}

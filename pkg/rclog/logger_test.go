package rclog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("should not appear")
	l.Info("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below the configured level, got %q", buf.String())
	}

	l.Warn("cycle collector defensive fallback engaged")
	if !strings.Contains(buf.String(), "defensive fallback") {
		t.Fatalf("expected warn message in output, got %q", buf.String())
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	l := Nop()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	// Nop has no observable output surface; this test documents that a
	// nil-safe no-op logger never panics regardless of call pattern.
	var nilLogger *Logger
	nilLogger.Warn("safe even when nil")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"WARN":  LevelWarn,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("nonsense"); err == nil {
		t.Error("expected error for invalid level")
	}
}

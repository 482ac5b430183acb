package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestAutoFormatOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := resolveFormat("auto", &buf); got != "json" {
		t.Errorf("auto on a buffer resolved to %q", got)
	}
	if got := resolveFormat("text", &buf); got != "text" {
		t.Errorf("explicit format overridden: %q", got)
	}
}

func TestInitWritesThroughConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelDebug, Format: "json", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { defaultLogger = nil })

	done := LogPhase("lowering")
	Debug("details", "statements", 3)
	done()

	out := buf.String()
	for _, want := range []string{`"phase":"lowering"`, `"statements":3`, `"msg":"Completed compilation phase"`, `"elapsed":`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelWarn, Format: "text", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { defaultLogger = nil })

	Info("hidden")
	Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

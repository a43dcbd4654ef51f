package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultAndDiscard(t *testing.T) {
	t.Parallel()
	for _, log := range []Logger{Default(), Discard()} {
		if log == nil {
			t.Fatal("constructor returned nil")
		}
		log.Debug("debug message")
		log.Info("info message")
		log.Warn("warn message")
		log.Error("error message")
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("container loaded", "nodes", 13)

	out := buf.String()
	if !strings.Contains(out, "container loaded") {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"nodes":13`) {
		t.Fatalf("expected nodes attr in JSON output, got: %s", out)
	}
	if !strings.Contains(out, `"level":"INFO"`) {
		t.Fatalf("expected level INFO in output, got: %s", out)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")
	log.Debug("also should not appear")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}

	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestSetupFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"path":"String.nx"`},
		{"text", "path=String.nx"},
		{"pretty", "path=String.nx"},
		{"", "path=String.nx"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		Setup(&buf, "info", tc.format).Info("open", "path", "String.nx")
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("format %q: expected %q in output, got: %s", tc.format, tc.want, buf.String())
		}
	}

	var buf bytes.Buffer
	Setup(&buf, "error", "json").Warn("dropped")
	if buf.Len() > 0 {
		t.Fatalf("expected warn to be dropped at error level, got: %s", buf.String())
	}
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("component", "catalog")
	log.Info("child message")

	out := buf.String()
	if !strings.Contains(out, `"component":"catalog"`) {
		t.Fatalf("expected component attr, got: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))

	FromContext(ctx).Info("roundtrip test")
	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelInfo}, // case-sensitive
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	h2 := h.WithAttrs([]slog.Attr{slog.String("service", "nx")}).WithGroup("a").WithGroup("b")
	slog.New(h2).Info("nested", "key", "val")

	out := buf.String()
	if !strings.Contains(out, "service=nx") {
		t.Fatalf("expected ungrouped handler attr, got: %s", out)
	}
	if !strings.Contains(out, "a.b.key=val") {
		t.Fatalf("expected 'a.b.key=val' in output, got: %s", out)
	}
	if h.WithGroup("") != h {
		t.Fatal("WithGroup empty string should return same handler")
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Info("test", "path", "Map/Obj/acc1.img", "msg", "hello world")

	out := buf.String()
	if !strings.Contains(out, "path=Map/Obj/acc1.img") {
		t.Fatalf("expected unquoted simple string, got: %s", out)
	}
	if !strings.Contains(out, `msg="hello world"`) {
		t.Fatalf("expected quoted string with spaces, got: %s", out)
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{"has\nnewline", true},
		{`has"quote`, true},
		{"k=v", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.expected {
			t.Errorf("needsQuoting(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

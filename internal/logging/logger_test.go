package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestConsoleLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)
	return slog.New(newConsoleHandler(buf, lv))
}

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("scan complete", "component", "coordinator", "groups", 3, "root", "/media/4TB A")

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "INFO coordinator: scan complete") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "groups=3") {
		t.Fatalf("missing groups attribute: %q", line)
	}
	// Values containing spaces are quoted.
	if !strings.Contains(line, `root="/media/4TB A"`) {
		t.Fatalf("expected quoted root value: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelWarn)

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info record should have been filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestConsoleHandlerCarriesWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelDebug).With("component", "hasher")

	logger.Debug("file hashed", slog.Duration("elapsed", 1500*time.Millisecond))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "hasher: file hashed") {
		t.Fatalf("component prefix missing: %q", line)
	}
	if !strings.Contains(line, "elapsed=1.5s") {
		t.Fatalf("duration attribute missing: %q", line)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got != slog.LevelInfo {
		t.Fatalf("unexpected level: %v", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("unexpected level: %v", got)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

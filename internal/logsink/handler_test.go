package logsink

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Lines(t *testing.T) {
	var out, mirror syncBuf
	s := New(&out, Options{Location: time.UTC, Now: fixedNow})
	logger := slog.New(NewHandler(s, slog.LevelDebug, &mirror))

	logger.With("run_id", "r1").WithGroup("match").Info("click result: Success", "label", "Start tour", "tick", 3)
	logger.Debug("target app not active, skipping scan", slog.Group("fg", "app", "com.android.launcher"))
	s.Close()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	want := `2026-03-14 08:30:15.123: click result: Success run_id=r1 match.label="Start tour" match.tick=3`
	if lines[0] != want {
		t.Errorf("line = %q\nwant   %q", lines[0], want)
	}
	if !strings.HasSuffix(lines[1], "skipping scan fg.app=com.android.launcher") {
		t.Errorf("group line = %q", lines[1])
	}
	if !strings.HasPrefix(mirror.String(), "INFO click result: Success") {
		t.Errorf("mirror = %q", mirror.String())
	}
}

func TestHandler_Level(t *testing.T) {
	var out syncBuf
	s := New(&out, Options{Now: fixedNow})
	logger := slog.New(NewHandler(s, slog.LevelInfo, nil))
	logger.Debug("hidden")
	logger.Warn("click result: Failed")
	s.Close()
	if strings.Contains(out.String(), "hidden") || !strings.Contains(out.String(), "Failed") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestQuote(t *testing.T) {
	for in, want := range map[string]string{
		"plain": "plain",
		"":      `""`,
		"a b":   `"a b"`,
		"k=v":   `"k=v"`,
	} {
		if got := quote(in); got != want {
			t.Errorf("quote(%q) = %q, want %q", in, got, want)
		}
	}
}

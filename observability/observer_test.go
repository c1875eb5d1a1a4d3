package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stateroom/stateroom/observability"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  string
	}{
		{name: "trace range", level: 1, want: "TRACE"},
		{name: "verbose maps to DEBUG", level: observability.LevelVerbose, want: "DEBUG"},
		{name: "info maps to INFO", level: observability.LevelInfo, want: "INFO"},
		{name: "warning maps to WARN", level: observability.LevelWarning, want: "WARN"},
		{name: "error maps to ERROR", level: observability.LevelError, want: "ERROR"},
		{name: "fatal range", level: 21, want: "FATAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  slog.Level
	}{
		{name: "verbose maps to Debug", level: observability.LevelVerbose, want: slog.LevelDebug},
		{name: "info maps to Info", level: observability.LevelInfo, want: slog.LevelInfo},
		{name: "warning maps to Warn", level: observability.LevelWarning, want: slog.LevelWarn},
		{name: "error maps to Error", level: observability.LevelError, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.SlogLevel(); got != tt.want {
				t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestSlogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "driver.apply",
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "driver.Run",
		Session:   "sess-1",
		Data:      map[string]any{"seq": 7},
	})

	out := buf.String()
	for _, want := range []string{"driver.apply", "source=driver.Run", "session=sess-1", "seq=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestSlogObserver_OmitsEmptySession(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "driver.start",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "driver.Run",
	})

	if strings.Contains(buf.String(), "session=") {
		t.Errorf("log output carries empty session attribute: %s", buf.String())
	}
}

func TestMultiObserver(t *testing.T) {
	var first, second recordingObserver

	multi := observability.NewMultiObserver(&first, nil, &second)
	multi.OnEvent(context.Background(), observability.Event{Type: "driver.stop"})

	if first.count != 1 || second.count != 1 {
		t.Errorf("got counts %d, %d; want 1, 1", first.count, second.count)
	}
}

func TestNoOpObserver(t *testing.T) {
	observability.NoOpObserver{}.OnEvent(context.Background(), observability.Event{
		Type:  "driver.apply",
		Level: observability.LevelInfo,
	})
}

type recordingObserver struct {
	count int
}

func (r *recordingObserver) OnEvent(ctx context.Context, event observability.Event) {
	r.count++
}

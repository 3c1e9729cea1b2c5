package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink closed") }

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) got %v, want %v", in, got, want)
		}
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debug, warn bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	l := slog.New(h).With("session.id", "s1")

	l.Debug("thinking")
	l.Warn("report failed")

	assert.Contains(t, debug.String(), "thinking")
	assert.Contains(t, debug.String(), "report failed")
	assert.NotContains(t, warn.String(), "thinking")
	assert.Contains(t, warn.String(), "session.id=s1")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug-1))
}

func TestMultiHandlerKeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{text}, text)

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "game finished", 0))
	assert.Error(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "game finished"))
}

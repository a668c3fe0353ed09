package logger

import (
	"bytes"
	"errors"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"log/slog"
	"testing"
)

func TestSlogLogger_SetLogLevel(t *testing.T) {
	l := NewWithHandler(slogt.New(t).Handler())

	for _, lvl := range []string{"trace", "debug", "info", "warn", "error", "fatal"} {
		l.SetLogLevel(lvl)
		assert.Equal(t, lvl, l.GetLogLevel())
	}

	l.SetLogLevel("nonsense")
	assert.Equal(t, "info", l.GetLogLevel())
}

func TestPrefixedLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := NewPrefixedLogger(NewPrefixedLogger(base, "telegram"), "poll")
	assert.Equal(t, "telegram/poll", p.Prefix())

	p.Error("request failed", errors.New("boom"), slog.Int("attempt", 2))
	out := buf.String()
	assert.Contains(t, out, "[telegram/poll] request failed")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "attempt=2")
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "debug msg")
	log.Info(ctx, "info msg")
	log.Warn(ctx, "warn msg")
	log.Error(ctx, "error msg")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "debug msg")
	require.Contains(t, out, "level=INFO")
	require.Contains(t, out, "info msg")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "warn msg")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "error msg")
}

func TestSlogLogger_WithAddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)
	child := log.With("module", "auth")

	child.Info(context.Background(), "hello")

	line := strings.TrimSpace(buf.String())
	require.Contains(t, line, "module=auth")
	require.Contains(t, line, "hello")
}

func TestSlogLogger_KeyValuePairs(t *testing.T) {
	log, buf := newTestLogger(t)

	log.Info(context.Background(), "login", "user_id", "42")

	require.Contains(t, buf.String(), "user_id=42")
}

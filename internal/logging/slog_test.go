package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(NewSlogHandler(&buf, "text", slog.LevelDebug))
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, s := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, s)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "review", "user", "alice").Info(context.Background(), "next item", "id", 7)

	out := buf.String()
	for _, s := range []string{"module=review", "user=alice", "id=7", "msg=\"next item\""} {
		assert.Contains(t, out, s)
	}
}

func TestSlogHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(NewSlogHandler(&buf, "json", slog.LevelInfo)))

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"k":"v"`)
}

func TestZapLogger_WritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLogger(zap.New(core).Sugar())

	log.With("module", "progress").Warn(context.Background(), "out of range", "paragraph", 12)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "out of range", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "progress", fields["module"])
	assert.EqualValues(t, 12, fields["paragraph"])
}

func TestNew(t *testing.T) {
	l, err := New(BackendSlog, "debug", "text")
	require.NoError(t, err)
	assert.IsType(t, &SlogLogger{}, l)

	l, err = New(BackendZap, "info", "json")
	require.NoError(t, err)
	assert.IsType(t, &ZapLogger{}, l)

	_, err = New(BackendZap, "loud", "json")
	assert.Error(t, err)

	_, err = New("logrus", "info", "json")
	assert.Error(t, err)
}

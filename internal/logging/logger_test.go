package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/flip"
	"github.com/zoobzio/flip/store"
)

// syncBuffer is a bytes.Buffer safe for the signal listener goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNew_RewritesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Error("boom", "error", errors.New("bad"))

	out := buf.String()
	assert.Contains(t, out, "err=bad")
	assert.NotContains(t, out, "error=bad")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)
	logger.Error("discarded")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestHookSignals_LogsFailures(t *testing.T) {
	var buf syncBuffer
	HookSignals(New(&buf, slog.LevelDebug))

	capitan.Emit(context.Background(), store.DecodeFailed, flip.KeyError.Field("bad document"))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(buf.String()), []byte("decode failed"))
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, buf.String(), `err="bad document"`)
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestHookSignals_LaterLoggerReplacesEarlier(t *testing.T) {
	var first, second syncBuffer
	HookSignals(New(&first, slog.LevelDebug))
	HookSignals(New(&second, slog.LevelDebug))

	capitan.Emit(context.Background(), flip.ActionRejected,
		flip.KeyActionType.Field("ADD_TODO"),
		flip.KeyError.Field("missing payload"),
	)

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(second.String()), []byte("action rejected"))
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotContains(t, first.String(), "action rejected")
	assert.Contains(t, second.String(), "type=ADD_TODO")
}

// Package logging builds the CLI's slog loggers and bridges flip signals into
// them.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/flip"
	"github.com/zoobzio/flip/store"
)

// New creates a text logger writing to w, normally stderr so that rendered
// output on stdout stays clean. The "error" key is rewritten to "err".
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

var (
	hookOnce   sync.Once
	hookLogger atomic.Pointer[slog.Logger]
)

// HookSignals logs flip and store signals through logger. Failures are logged
// at warn level, dispatches at debug level. Listeners are registered once per
// process; later calls only replace the logger they write to.
func HookSignals(logger *slog.Logger) {
	hookLogger.Store(logger)
	hookOnce.Do(registerHooks)
}

func registerHooks() {
	capitan.Hook(flip.ActionRejected, func(ctx context.Context, e *capitan.Event) {
		actionType, _ := flip.KeyActionType.From(e)
		errMsg, _ := flip.KeyError.From(e)
		hookLogger.Load().WarnContext(ctx, "action rejected", "type", actionType, "error", errMsg)
	})
	capitan.Hook(store.DispatchFailed, func(ctx context.Context, e *capitan.Event) {
		actionType, _ := flip.KeyActionType.From(e)
		errMsg, _ := flip.KeyError.From(e)
		hookLogger.Load().WarnContext(ctx, "dispatch failed", "type", actionType, "error", errMsg)
	})
	capitan.Hook(store.DecodeFailed, func(ctx context.Context, e *capitan.Event) {
		errMsg, _ := flip.KeyError.From(e)
		hookLogger.Load().WarnContext(ctx, "decode failed", "error", errMsg)
	})
	capitan.Hook(store.ActionDispatched, func(ctx context.Context, e *capitan.Event) {
		actionType, _ := flip.KeyActionType.From(e)
		duration, _ := store.KeyDuration.From(e)
		hookLogger.Load().DebugContext(ctx, "action dispatched", "type", actionType, "duration", duration)
	})
	capitan.Hook(store.WatchStarted, func(ctx context.Context, e *capitan.Event) {
		watcher, _ := store.KeyWatcherType.From(e)
		contentType, _ := store.KeyContentType.From(e)
		hookLogger.Load().InfoContext(ctx, "watch started", "watcher", watcher, "content_type", contentType)
	})
	capitan.Hook(store.WatchStopped, func(ctx context.Context, _ *capitan.Event) {
		hookLogger.Load().InfoContext(ctx, "watch stopped")
	})
}

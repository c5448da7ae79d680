package scenesync

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false so callers skip
// building attributes at all.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var silent = slog.New(discard{})

// current is read by channels and transports from any goroutine.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger installs l as the logger for every scenesync package. Passing
// nil silences logging again, which is also the default.
//
// Levels:
//   - [slog.LevelDebug]: each packet sent, handle create and release,
//     reference count changes, updates skipped because the resource is not
//     on the channel
//   - [slog.LevelInfo]: channel open and close, journal close
//   - [slog.LevelWarn]: channel disconnection, records a mirror rejects
//
// For example:
//
//	scenesync.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the installed logger. It never returns nil.
func Logger() *slog.Logger {
	return current.Load()
}

// DebugEnabled reports whether the installed logger wants debug records.
// Hot paths check it before formatting packets.
func DebugEnabled() bool {
	return current.Load().Enabled(context.Background(), slog.LevelDebug)
}

package scenesync

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestDiscardHandler(t *testing.T) {
	h := discard{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("n", 1)}).(discard); !ok {
		t.Error("WithAttrs() changed handler type")
	}
	if _, ok := h.WithGroup("g").(discard); !ok {
		t.Error("WithGroup() changed handler type")
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	if DebugEnabled() {
		t.Fatal("debug enabled by default")
	}

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(l)
	if Logger() != l || !DebugEnabled() {
		t.Fatal("SetLogger did not install the logger")
	}
	Logger().Info("channel opened", "channel", "a")
	if !strings.Contains(buf.String(), "channel=a") {
		t.Errorf("output = %q", buf.String())
	}

	SetLogger(nil)
	if Logger() == nil || Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("read")
			_ = DebugEnabled()
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkSilentLogger(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Logger().Debug("packet sent", "channel", "a", "bytes", 64)
	}
}

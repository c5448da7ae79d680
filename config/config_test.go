package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	want := Config{
		Transport:   "memory",
		JournalPath: "scenesync.db",
		LogLevel:    slog.LevelWarn,
		Channels:    1,
		Color:       ColorAuto,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCENESYNC_TRANSPORT", "journal")
	t.Setenv("SCENESYNC_JOURNAL_PATH", "/tmp/x.db")
	t.Setenv("SCENESYNC_LOG_LEVEL", "debug")
	t.Setenv("SCENESYNC_CHANNELS", "3")
	t.Setenv("SCENESYNC_COLOR", "never")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Transport != "journal" || cfg.JournalPath != "/tmp/x.db" || cfg.Channels != 3 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.Color != ColorNever {
		t.Errorf("LogLevel = %v, Color = %v", cfg.LogLevel, cfg.Color)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"bad int", "SCENESYNC_CHANNELS", "many", "parse env:"},
		{"bad color", "SCENESYNC_COLOR", "sometimes", "invalid color mode"},
		{"bad level", "SCENESYNC_LOG_LEVEL", "loud", "parse env:"},
		{"zero channels", "SCENESYNC_CHANNELS", "0", "at least 1"},
		{"negative limit", "SCENESYNC_MAX_HANDLES", "-1", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestJournalNeedsPath(t *testing.T) {
	cfg := Config{Transport: "journal", Channels: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted journal without a path")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Config{LogLevel: slog.LevelInfo}.NewLogger(&buf)
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug enabled at info level")
	}
	l.Info("hello", "k", 1)
	if !strings.Contains(buf.String(), "msg=hello k=1") {
		t.Errorf("output = %q", buf.String())
	}
}

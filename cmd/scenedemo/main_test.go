package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/scenesync/config"
	"github.com/gogpu/scenesync/journal"
)

func testConfig(channels int) config.Config {
	return config.Config{Transport: "memory", Channels: channels, Color: config.ColorNever}
}

func TestRunDefaultScene(t *testing.T) {
	var out bytes.Buffer
	if err := run(testConfig(2), defaultScene, &out, newPalette(false)); err != nil {
		t.Fatalf("run() = %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"[ch0] Hello",
		"[ch1] Hello",
		"[ch0] CreateResource",
		"PathGeometry",
		" empty",
		"ch0: ",
		"ch1: ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(text, "0 still live") != 2 {
		t.Errorf("scene not fully released:\n%s", text)
	}
}

func TestRunQuiet(t *testing.T) {
	var out bytes.Buffer
	if err := run(testConfig(1), defaultScene, &out, nil); err != nil {
		t.Fatalf("run() = %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 1 {
		t.Errorf("quiet run printed %d lines:\n%s", lines, out.String())
	}
}

func TestRunJournal(t *testing.T) {
	cfg := testConfig(1)
	cfg.Transport = "journal"
	cfg.JournalPath = filepath.Join(t.TempDir(), "demo.db")
	var out bytes.Buffer
	if err := run(cfg, defaultScene, &out, nil); err != nil {
		t.Fatalf("run() = %v", err)
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	n, err := j.Len(t.Context(), "ch0")
	if err != nil || n == 0 {
		t.Errorf("journal holds %d frames, %v", n, err)
	}
}

func TestRunHandleLimit(t *testing.T) {
	cfg := testConfig(1)
	cfg.MaxHandles = 2
	var out bytes.Buffer
	err := run(cfg, defaultScene, &out, nil)
	if err == nil || !strings.Contains(err.Error(), "handle table full") {
		t.Errorf("run() = %v, want handle table full", err)
	}
}

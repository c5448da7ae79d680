package main

import (
	"bytes"
	"testing"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/config"
	"github.com/gogpu/scenesync/packet"
)

func TestDumpTransport(t *testing.T) {
	var out bytes.Buffer
	mt := channel.NewMemoryTransport()
	d := &dumpTransport{next: mt, name: "x", w: &out, p: newPalette(false)}

	if err := d.WriteFrame(packet.Encode(packet.ReleaseResource{Handle: 4})); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteFrame([]byte{0xff}); err != nil {
		t.Fatal(err)
	}
	want := "[x] ReleaseResource 4\n"
	if got := out.String(); got[:len(want)] != want {
		t.Errorf("dump = %q, want prefix %q", got, want)
	}
	if !bytes.Contains(out.Bytes(), []byte("undecodable frame")) {
		t.Error("bad frame not reported")
	}
	if mt.Len() != 2 {
		t.Errorf("forwarded %d frames, want 2", mt.Len())
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode config.ColorMode
		want bool
	}{
		{config.ColorAlways, true},
		{config.ColorNever, false},
		{config.ColorAuto, false}, // not a terminal
	}
	for _, tt := range tests {
		if got := colorEnabled(tt.mode, &buf); got != tt.want {
			t.Errorf("colorEnabled(%s) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestPaletteColors(t *testing.T) {
	p := newPalette(true)
	line := p.line("c", packet.Hello{Version: 2})
	if !bytes.Contains([]byte(line), []byte("\x1b[")) {
		t.Errorf("colored line has no escape codes: %q", line)
	}
	if plain := newPalette(false).line("c", packet.Hello{Version: 2}); plain != "[c] Hello version=2" {
		t.Errorf("plain line = %q", plain)
	}
}

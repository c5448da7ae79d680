package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/config"
	"github.com/gogpu/scenesync/packet"
)

// palette colors packet dump lines by record family.
type palette struct {
	control   *color.Color
	light     *color.Color
	transform *color.Color
	animation *color.Color
	geometry  *color.Color
	channel   *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		control:   color.New(color.FgYellow),
		light:     color.New(color.FgCyan),
		transform: color.New(color.FgMagenta),
		animation: color.New(color.FgGreen),
		geometry:  color.New(color.FgBlue),
		channel:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.control, p.light, p.transform, p.animation, p.geometry, p.channel} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) forTag(t packet.Tag) *color.Color {
	switch {
	case t.IsControl():
		return p.control
	case t >= packet.TagAmbientLight && t < packet.TagTranslateTransform3D:
		return p.light
	case t >= packet.TagTranslateTransform3D && t < packet.TagVector3Animation:
		return p.transform
	case t >= packet.TagVector3Animation && t < packet.TagPathGeometry:
		return p.animation
	default:
		return p.geometry
	}
}

// line formats one record for the dump.
func (p *palette) line(ch string, cmd packet.Command) string {
	text := packet.Format(cmd)
	name, rest, _ := strings.Cut(text, " ")
	return fmt.Sprintf("%s %s %s", p.channel.Sprintf("[%s]", ch), p.forTag(cmd.Tag()).Sprint(name), rest)
}

// colorEnabled resolves mode against the output.
func colorEnabled(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// dumpTransport prints every frame before handing it on.
type dumpTransport struct {
	next channel.Transport
	name string
	w    io.Writer
	p    *palette
}

func (d *dumpTransport) WriteFrame(frame []byte) error {
	cmd, err := packet.Decode(frame)
	if err != nil {
		fmt.Fprintf(d.w, "[%s] undecodable frame: %v\n", d.name, err)
	} else {
		fmt.Fprintln(d.w, d.p.line(d.name, cmd))
	}
	return d.next.WriteFrame(frame)
}

func (d *dumpTransport) Close() error { return d.next.Close() }

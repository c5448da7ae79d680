// Command scenedemo builds a scene from a YAML file, mirrors it on one or
// more channels, applies the file's steps and prints the resulting traffic.
//
// Settings come from SCENESYNC_* environment variables; see package config.
package main

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/config"
	_ "github.com/gogpu/scenesync/journal"
	"github.com/gogpu/scenesync/mirror"
	"github.com/gogpu/scenesync/resource"
)

//go:embed default.yaml
var defaultScene []byte

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (YAML); the built-in scene if empty")
		transport = flag.String("transport", "", "channel transport, overrides SCENESYNC_TRANSPORT")
		quiet     = flag.Bool("quiet", false, "print only the summary")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("scenedemo: %v", err)
	}
	if *transport != "" {
		cfg.Transport = *transport
	}
	scenesync.SetLogger(cfg.NewLogger(os.Stderr))

	data := defaultScene
	if *scenePath != "" {
		if data, err = os.ReadFile(*scenePath); err != nil {
			config.Exitf("scenedemo: %v", err)
		}
	}

	var p *palette
	if !*quiet {
		p = newPalette(colorEnabled(cfg.Color, os.Stdout))
	}
	if err := run(cfg, data, os.Stdout, p); err != nil {
		config.Exitf("scenedemo: %v", err)
	}
}

// demoChannel is one channel with the mirror fed from it.
type demoChannel struct {
	ch    *channel.Channel
	cache *mirror.Cache
}

// run drives the scene in data over cfg.Channels channels, writing the
// packet dump (when p is not nil) and a summary to w.
func run(cfg config.Config, data []byte, w io.Writer, p *palette) error {
	f, err := parseSceneFile(data)
	if err != nil {
		return err
	}
	chans, err := openChannels(cfg, w, p)
	defer func() {
		for _, c := range chans {
			_ = c.ch.Close()
		}
	}()
	if err != nil {
		return err
	}

	var runErr error
	resource.WithSession(resource.NewLock(), func(s *resource.Session) {
		runErr = drive(s, f, chans)
	})
	summarize(w, chans)
	return runErr
}

func openChannels(cfg config.Config, w io.Writer, p *palette) ([]demoChannel, error) {
	var chans []demoChannel
	for i := range cfg.Channels {
		name := fmt.Sprintf("ch%d", i)
		t, err := channel.OpenTransport(cfg.Transport, channel.TransportOptions{
			Name:   name,
			Path:   cfg.JournalPath,
			Writer: io.Discard,
		})
		if err != nil {
			return chans, err
		}
		cache := mirror.NewCache()
		t = tee{t, mirror.NewTransport(cache)}
		if p != nil {
			t = &dumpTransport{next: t, name: name, w: w, p: p}
		}
		ch, err := channel.New(t, channel.WithName(name), channel.WithMaxHandles(cfg.MaxHandles))
		if err != nil {
			return chans, err
		}
		chans = append(chans, demoChannel{ch: ch, cache: cache})
	}
	return chans, nil
}

// drive puts the scene on every channel, applies the steps, then takes the
// scene off again.
func drive(s *resource.Session, f *sceneFile, chans []demoChannel) error {
	b, err := f.build(s)
	if err != nil {
		return err
	}
	for _, c := range chans {
		for _, r := range b.resources() {
			if _, err := r.AddRefOnChannel(s, c.ch); err != nil {
				return err
			}
		}
	}
	for i, st := range f.Steps {
		if err := st.apply(s, b); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	var errs []error
	for _, c := range chans {
		for _, r := range b.resources() {
			errs = append(errs, r.ReleaseOnChannel(s, c.ch))
		}
	}
	return errors.Join(errs...)
}

func summarize(w io.Writer, chans []demoChannel) {
	pr := message.NewPrinter(language.English)
	for _, c := range chans {
		st := c.ch.Stats()
		pr.Fprintf(w, "%s: %d packets, %d bytes, %d created, %d released, %d applied by mirror, %d still live\n",
			c.ch, st.Packets, st.Bytes, st.Creates, st.Releases, c.cache.Applied(), c.cache.Len())
	}
}

// tee writes every frame to both transports.
type tee [2]channel.Transport

func (t tee) WriteFrame(frame []byte) error {
	return errors.Join(t[0].WriteFrame(frame), t[1].WriteFrame(frame))
}

func (t tee) Close() error {
	return errors.Join(t[0].Close(), t[1].Close())
}

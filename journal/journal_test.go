package journal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/mirror"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/resource"
	"github.com/gogpu/scenesync/scene"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "frames.db"))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("Open with blank path succeeded")
	}
}

func TestReplayInOrder(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	tr, err := j.Transport(ctx, "main")
	if err != nil {
		t.Fatal(err)
	}

	want := [][]byte{{1}, {2, 2}, {3, 3, 3}}
	for _, f := range want {
		if err := tr.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame() = %v", err)
		}
	}

	var got [][]byte
	var seqs []int64
	err = j.Replay(ctx, "main", func(seq int64, frame []byte) error {
		seqs = append(seqs, seq)
		got = append(got, frame)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if !slices.EqualFunc(got, want, bytes.Equal) {
		t.Errorf("frames = %v, want %v", got, want)
	}
	if !slices.Equal(seqs, []int64{1, 2, 3}) {
		t.Errorf("seqs = %v", seqs)
	}
}

func TestTransportContinuesSequence(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	for i := 0; i < 2; i++ {
		tr, err := j.Transport(ctx, "main")
		if err != nil {
			t.Fatal(err)
		}
		if err := tr.WriteFrame([]byte{byte(i)}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		if err := tr.Close(); err != nil {
			t.Fatal(err)
		}
		if err := tr.WriteFrame([]byte{0}); !errors.Is(err, ErrClosed) {
			t.Errorf("write after close = %v, want ErrClosed", err)
		}
	}
	if n, err := j.Len(ctx, "main"); err != nil || n != 2 {
		t.Errorf("Len() = %d, %v, want 2", n, err)
	}
}

func TestTransportNameInUse(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	first, err := j.Transport(ctx, "main")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.Transport(ctx, "main"); !errors.Is(err, ErrInUse) {
		t.Fatalf("second Transport(main) = %v, want ErrInUse", err)
	}
	if err := first.WriteFrame([]byte{1}); err != nil {
		t.Fatalf("WriteFrame() = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := j.Transport(ctx, "main")
	if err != nil {
		t.Fatalf("Transport after Close = %v", err)
	}
	if err := second.WriteFrame([]byte{2}); err != nil {
		t.Fatalf("WriteFrame() on reopened transport = %v", err)
	}
	var seqs []int64
	_ = j.Replay(ctx, "main", func(seq int64, _ []byte) error {
		seqs = append(seqs, seq)
		return nil
	})
	if !slices.Equal(seqs, []int64{1, 2}) {
		t.Errorf("seqs = %v, want [1 2]", seqs)
	}
}

func TestChannelsAndTruncate(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	for _, name := range []string{"b", "a"} {
		tr, err := j.Transport(ctx, name)
		if err != nil {
			t.Fatal(err)
		}
		if err := tr.WriteFrame([]byte(name)); err != nil {
			t.Fatal(err)
		}
	}
	names, err := j.Channels(ctx)
	if err != nil || !slices.Equal(names, []string{"a", "b"}) {
		t.Fatalf("Channels() = %v, %v", names, err)
	}
	if err := j.Truncate(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if n, _ := j.Len(ctx, "a"); n != 0 {
		t.Errorf("Len(a) = %d after Truncate", n)
	}
}

func TestReplayStopsOnError(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	tr, _ := j.Transport(ctx, "main")
	_ = tr.WriteFrame([]byte{1})
	_ = tr.WriteFrame([]byte{2})

	errStop := errors.New("stop")
	calls := 0
	err := j.Replay(ctx, "main", func(int64, []byte) error {
		calls++
		return errStop
	})
	if !errors.Is(err, errStop) || calls != 1 {
		t.Errorf("Replay() = %v after %d calls", err, calls)
	}
}

// Replaying a recorded session into a fresh mirror rebuilds the same state
// as a mirror that watched it live.
func TestReplayRebuildsMirror(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	jt, err := j.Transport(ctx, "scene")
	if err != nil {
		t.Fatal(err)
	}
	live := mirror.NewCache()
	ch, err := channel.New(tee{jt, mirror.NewTransport(live)}, channel.WithName("scene"))
	if err != nil {
		t.Fatal(err)
	}

	resource.WithSession(resource.NewLock(), func(s *resource.Session) {
		l := scene.NewPointLight(f32.Vec3{1, 2, 3})
		g := scene.NewModel3DGroup(l, scene.NewAmbientLight(gputypes.ColorGray))
		if _, err := g.AddRefOnChannel(s, ch); err != nil {
			t.Fatal(err)
		}
		if err := l.SetColor(s, gputypes.ColorRed); err != nil {
			t.Fatal(err)
		}
		if err := l.SetRange(s, 5); err != nil {
			t.Fatal(err)
		}
	})

	replayed := mirror.NewCache()
	if err := j.Replay(ctx, "scene", func(_ int64, frame []byte) error {
		return replayed.Apply(frame)
	}); err != nil {
		t.Fatalf("Replay() = %v", err)
	}

	want, got := live.Resources(), replayed.Resources()
	if len(got) != len(want) || len(got) != 3 {
		t.Fatalf("replayed %d resources, live %d", len(got), len(want))
	}
	for i := range want {
		if packet.Format(got[i].State) != packet.Format(want[i].State) {
			t.Errorf("resource %v:\n got  %s\n want %s", want[i].Handle,
				packet.Format(got[i].State), packet.Format(want[i].State))
		}
	}
}

func TestRegisteredTransport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.db")
	tr, err := channel.OpenTransport("journal", channel.TransportOptions{Name: "reg", Path: path})
	if err != nil {
		t.Fatalf("OpenTransport(journal) = %v", err)
	}
	ch, err := channel.New(tr)
	if err != nil {
		t.Fatal(err)
	}
	if err := ch.Close(); err != nil {
		t.Fatal(err)
	}

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	n, err := j.Len(context.Background(), "reg")
	if err != nil || n != 1 {
		t.Errorf("Len() = %d, %v, want the Hello frame", n, err)
	}

	if _, err := channel.OpenTransport("journal", channel.TransportOptions{}); err == nil {
		t.Error("journal transport opened without a path")
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

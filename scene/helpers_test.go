package scene

import (
	"reflect"
	"testing"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/resource"
)

func newSession(t *testing.T) *resource.Session {
	t.Helper()
	s := resource.NewLock().Acquire()
	t.Cleanup(s.Release)
	return s
}

// newChannel opens a memory channel and drops the Hello frame.
func newChannel(t *testing.T, name string) (*channel.Channel, *channel.MemoryTransport) {
	t.Helper()
	mt := channel.NewMemoryTransport()
	ch, err := channel.New(mt, channel.WithName(name))
	if err != nil {
		t.Fatalf("channel.New() = %v", err)
	}
	mt.Reset()
	return ch, mt
}

// drain returns the commands written since the last drain.
func drain(t *testing.T, mt *channel.MemoryTransport) []packet.Command {
	t.Helper()
	cmds, err := mt.Commands()
	if err != nil {
		t.Fatalf("Commands() = %v", err)
	}
	mt.Reset()
	return cmds
}

func expectCommands(t *testing.T, mt *channel.MemoryTransport, want ...packet.Command) {
	t.Helper()
	got := drain(t, mt)
	if len(got) != len(want) {
		t.Fatalf("got %d commands, want %d:\n%s", len(got), len(want), dump(got))
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("command %d:\n got  %s\n want %s", i, packet.Format(got[i]), packet.Format(want[i]))
		}
	}
}

func dump(cmds []packet.Command) string {
	var out string
	for _, c := range cmds {
		out += "  " + packet.Format(c) + "\n"
	}
	return out
}

func mustAddRef(t *testing.T, s *resource.Session, r resource.Resource, ch *channel.Channel) packet.Handle {
	t.Helper()
	h, err := r.AddRefOnChannel(s, ch)
	if err != nil {
		t.Fatalf("AddRefOnChannel(%s) = %v", ch, err)
	}
	return h
}

func mustRelease(t *testing.T, s *resource.Session, r resource.Resource, ch *channel.Channel) {
	t.Helper()
	if err := r.ReleaseOnChannel(s, ch); err != nil {
		t.Fatalf("ReleaseOnChannel(%s) = %v", ch, err)
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func create(h packet.Handle, typ packet.Type) packet.Command {
	return packet.CreateResource{Handle: h, Type: typ}
}

func release(h packet.Handle) packet.Command {
	return packet.ReleaseResource{Handle: h}
}

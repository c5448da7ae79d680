package mirror

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/resource"
	"github.com/gogpu/scenesync/scene"
)

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		cmds []packet.Command
		want error
	}{
		{"bad version", []packet.Command{packet.Hello{Version: 99}}, ErrVersionMismatch},
		{"update before create", []packet.Command{packet.AmbientLight{Handle: 1}}, ErrUnknownHandle},
		{"release unknown", []packet.Command{packet.ReleaseResource{Handle: 3}}, ErrUnknownHandle},
		{"double create", []packet.Command{
			packet.CreateResource{Handle: 1, Type: packet.TypeAmbientLight},
			packet.CreateResource{Handle: 1, Type: packet.TypeAmbientLight},
		}, ErrDuplicateHandle},
		{"wrong record type", []packet.Command{
			packet.CreateResource{Handle: 1, Type: packet.TypeAmbientLight},
			packet.PointLight{Handle: 1},
		}, ErrTypeMismatch},
		{"dangling animation", []packet.Command{
			packet.CreateResource{Handle: 1, Type: packet.TypeAmbientLight},
			packet.AmbientLight{Handle: 1, ColorAnimation: 2},
		}, ErrDanglingReference},
		{"dangling child", []packet.Command{
			packet.CreateResource{Handle: 1, Type: packet.TypeModel3DGroup},
			packet.Model3DGroup{Handle: 1, Children: []packet.Handle{7}},
		}, ErrDanglingReference},
		{"release referenced child", []packet.Command{
			packet.CreateResource{Handle: 1, Type: packet.TypeModel3DGroup},
			packet.CreateResource{Handle: 2, Type: packet.TypeAmbientLight},
			packet.Model3DGroup{Handle: 1, Children: []packet.Handle{2}},
			packet.ReleaseResource{Handle: 2},
		}, ErrStillReferenced},
		{"release referenced transform", []packet.Command{
			packet.CreateResource{Handle: 1, Type: packet.TypeTranslateTransform3D},
			packet.CreateResource{Handle: 2, Type: packet.TypePointLight},
			packet.PointLight{Handle: 2, Transform: 1},
			packet.ReleaseResource{Handle: 1},
		}, ErrStillReferenced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			var err error
			for _, cmd := range tt.cmds {
				if err = c.Apply(packet.Encode(cmd)); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Apply() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyLifecycle(t *testing.T) {
	c := NewCache()
	steps := []packet.Command{
		packet.Hello{Version: scenesync.ProtocolVersion},
		packet.CreateResource{Handle: 1, Type: packet.TypeAmbientLight},
		packet.AmbientLight{Handle: 1, Color: gputypes.ColorRed},
		packet.AmbientLight{Handle: 1, Color: gputypes.ColorBlue},
	}
	for _, cmd := range steps {
		if err := c.Apply(packet.Encode(cmd)); err != nil {
			t.Fatalf("Apply(%s) = %v", packet.Format(cmd), err)
		}
	}
	if !c.Opened() || c.Applied() != 4 {
		t.Errorf("Opened = %v, Applied = %d", c.Opened(), c.Applied())
	}
	r, ok := c.Lookup(1)
	if !ok || r.State.(packet.AmbientLight).Color != gputypes.ColorBlue {
		t.Fatalf("Lookup(1) = %+v, %v", r, ok)
	}

	if err := c.Apply(packet.Encode(packet.ReleaseResource{Handle: 1})); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Lookup(1); ok || c.Len() != 0 {
		t.Error("released resource still mirrored")
	}
}

// A scene driven through a loopback channel keeps the mirror in step with
// the sender after every operation.
func TestMirrorConverges(t *testing.T) {
	cache := NewCache()
	ch, err := channel.New(NewTransport(cache), channel.WithName("mirror"))
	if err != nil {
		t.Fatal(err)
	}

	resource.WithSession(resource.NewLock(), func(s *resource.Session) {
		tr := scene.NewTranslateTransform3D(f32.Vec3{0, 1, 0})
		pulse := scene.NewColorAnimation(gputypes.ColorBlack, gputypes.ColorWhite, time.Second)
		key := scene.NewDirectionalLight()
		fill := scene.NewPointLight(f32.Vec3{2, 2, 2})
		group := scene.NewModel3DGroup(key)

		step := func(name string, err error) {
			t.Helper()
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if cache.Len() != ch.Stats().Live {
				t.Fatalf("%s: mirror holds %d resources, channel %d", name, cache.Len(), ch.Stats().Live)
			}
		}

		_, err := group.AddRefOnChannel(s, ch)
		step("addref group", err)
		step("set transform", key.SetTransform(s, tr))
		step("animate color", key.AnimateColor(s, pulse))
		step("add fill", group.Add(s, fill))
		step("share transform", fill.SetTransform(s, tr))
		step("group transform", group.SetTransform(s, scene.NewScaleTransform3D(f32.Vec3{2, 2, 2})))
		step("stop animation", key.AnimateColor(s, nil))
		_, err = group.Remove(s, key)
		step("remove key", err)
		step("drop transform", fill.SetTransform(s, scene.Identity))

		h, _ := fill.Handle(s, ch)
		r, ok := cache.Lookup(h)
		if !ok {
			t.Fatal("fill light not mirrored")
		}
		got := r.State.(packet.PointLight)
		if got.Position != (f32.Vec3{2, 2, 2}) || !got.Transform.IsNull() {
			t.Errorf("mirrored fill = %s", packet.Format(got))
		}

		step("release group", group.ReleaseOnChannel(s, ch))
		if cache.Len() != 0 {
			t.Errorf("mirror holds %d resources after release", cache.Len())
		}
	})
	if ch.Err() != nil {
		t.Errorf("channel error: %v", ch.Err())
	}
}

func TestReleaseFollowsReferences(t *testing.T) {
	c := NewCache()
	steps := []packet.Command{
		packet.CreateResource{Handle: 1, Type: packet.TypeModel3DGroup},
		packet.CreateResource{Handle: 2, Type: packet.TypeAmbientLight},
		packet.Model3DGroup{Handle: 1, Children: []packet.Handle{2, 2}},
	}
	for _, cmd := range steps {
		if err := c.ApplyCommand(cmd); err != nil {
			t.Fatalf("ApplyCommand(%s) = %v", packet.Format(cmd), err)
		}
	}
	if n := c.References(2); n != 2 {
		t.Errorf("References(2) = %d, want 2", n)
	}

	// Replacing the group's state drops the references it held.
	if err := c.ApplyCommand(packet.Model3DGroup{Handle: 1}); err != nil {
		t.Fatal(err)
	}
	if n := c.References(2); n != 0 {
		t.Errorf("References(2) after update = %d, want 0", n)
	}
	if err := c.ApplyCommand(packet.ReleaseResource{Handle: 2}); err != nil {
		t.Errorf("release of unreferenced child = %v", err)
	}

	// Releasing an owner drops its references too.
	for _, cmd := range []packet.Command{
		packet.CreateResource{Handle: 3, Type: packet.TypeAmbientLight},
		packet.Model3DGroup{Handle: 1, Children: []packet.Handle{3}},
		packet.ReleaseResource{Handle: 1},
		packet.ReleaseResource{Handle: 3},
	} {
		if err := c.ApplyCommand(cmd); err != nil {
			t.Fatalf("ApplyCommand(%s) = %v", packet.Format(cmd), err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestRejectedFrameDisconnects(t *testing.T) {
	cache := NewCache()
	tp := NewTransport(cache)
	ch, err := channel.New(tp)
	if err != nil {
		t.Fatal(err)
	}
	// Feed the mirror a handle behind the channel's back.
	if err := tp.WriteFrame(packet.Encode(packet.CreateResource{Handle: 1, Type: packet.TypeAmbientLight})); err != nil {
		t.Fatal(err)
	}
	if _, err := ch.CreateResource(packet.TypeAmbientLight); !errors.Is(err, channel.ErrDisconnected) {
		t.Fatalf("CreateResource() = %v, want ErrDisconnected", err)
	}
	if !errors.Is(ch.Err(), ErrDuplicateHandle) {
		t.Errorf("Err() = %v, want ErrDuplicateHandle cause", ch.Err())
	}
}

func TestResourcesSorted(t *testing.T) {
	c := NewCache()
	for _, h := range []packet.Handle{5, 2, 9} {
		if err := c.Apply(packet.Encode(packet.CreateResource{Handle: h, Type: packet.TypePathGeometry})); err != nil {
			t.Fatal(err)
		}
	}
	rs := c.Resources()
	if len(rs) != 3 || rs[0].Handle != 2 || rs[1].Handle != 5 || rs[2].Handle != 9 {
		t.Errorf("Resources() = %+v", rs)
	}
}

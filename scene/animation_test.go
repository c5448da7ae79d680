package scene

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/packet"
)

func TestAnimationRecords(t *testing.T) {
	s := newSession(t)
	ch, mt := newChannel(t, "a")

	color := NewColorAnimation(gputypes.ColorRed, gputypes.ColorBlue, 1500*time.Millisecond)
	if err := color.SetRepeat(s, true); err != nil {
		t.Fatal(err)
	}
	vec := NewVector3Animation(f32.Vec3{}, f32.Vec3{1, 2, 3}, time.Second)
	scalar := NewScalarAnimation(0, 10, 250*time.Millisecond)

	mustAddRef(t, s, color, ch)
	mustAddRef(t, s, vec, ch)
	mustAddRef(t, s, scalar, ch)
	expectCommands(t, mt,
		create(1, packet.TypeColorAnimation),
		packet.ColorAnimation{Handle: 1, From: gputypes.ColorRed, To: gputypes.ColorBlue, DurationMS: 1500, Flags: packet.FlagRepeat},
		create(2, packet.TypeVector3Animation),
		packet.Vector3Animation{Handle: 2, To: f32.Vec3{1, 2, 3}, DurationMS: 1000},
		create(3, packet.TypeScalarAnimation),
		packet.ScalarAnimation{Handle: 3, To: 10, DurationMS: 250},
	)

	if err := scalar.SetTo(s, 20); err != nil {
		t.Fatal(err)
	}
	expectCommands(t, mt, packet.ScalarAnimation{Handle: 3, To: 20, DurationMS: 250})
}

func TestAnimationInvalidDuration(t *testing.T) {
	s := newSession(t)
	a := NewScalarAnimation(0, 1, time.Second)
	for _, d := range []time.Duration{-time.Millisecond, time.Duration(math.MaxUint32+1) * time.Millisecond} {
		if err := a.SetDuration(s, d); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("SetDuration(%v) = %v, want ErrInvalidDuration", d, err)
		}
	}
	if a.Duration() != time.Second {
		t.Errorf("Duration() = %v after rejected sets", a.Duration())
	}
	mustPanic(t, "NewScalarAnimation(-1s)", func() { NewScalarAnimation(0, 1, -time.Second) })
}

func TestRangeAnimation(t *testing.T) {
	s := newSession(t)
	ch, mt := newChannel(t, "a")
	l := NewPointLight(f32.Vec3{})
	if got := l.Range(); !math.IsInf(float64(got), 1) {
		t.Errorf("default Range() = %v, want +Inf", got)
	}
	if err := l.SetRange(s, -1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("SetRange(-1) = %v, want ErrInvalidRange", err)
	}

	a := NewScalarAnimation(1, 5, time.Second)
	if err := l.AnimateRange(s, a); err != nil {
		t.Fatal(err)
	}
	h := mustAddRef(t, s, l, ch)
	cmds := drain(t, mt)
	got := cmds[len(cmds)-1].(packet.PointLight)
	if got.Handle != h || got.RangeAnimation != 2 || got.Range != 0 {
		t.Errorf("update = %s", packet.Format(got))
	}
}

func TestAnimateNonAnimatable(t *testing.T) {
	s := newSession(t)
	p := NewPointLight(f32.Vec3{})
	if err := p.animate(s, pointConstant, NewScalarAnimation(0, 1, 0)); err == nil {
		t.Error("animate on a non-animatable property succeeded")
	}
}

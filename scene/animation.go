package scene

import (
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

// Animation timing is shared by every animation type.
var (
	animDuration = property.New("Duration", time.Duration(0), property.Validate(func(d time.Duration) error {
		if d < 0 || d.Milliseconds() > math.MaxUint32 {
			return ErrInvalidDuration
		}
		return nil
	}))
	animRepeat = property.New("Repeat", false)
)

// timing holds the parts of an animation that are not its value range.
type timing struct {
	node
}

// Duration returns the length of one cycle.
func (a *timing) Duration() time.Duration { return property.Get(a.props, animDuration) }

// Repeat reports whether the animation loops.
func (a *timing) Repeat() bool { return property.Get(a.props, animRepeat) }

// SetDuration changes the cycle length. Negative durations are rejected.
func (a *timing) SetDuration(s *resource.Session, d time.Duration) error {
	return setValue(s, &a.node, animDuration, d)
}

// SetRepeat changes whether the animation loops.
func (a *timing) SetRepeat(s *resource.Session, repeat bool) error {
	return setValue(s, &a.node, animRepeat, repeat)
}

func (a *timing) wire() (durationMS, flags uint32) {
	// #nosec G115 -- validated to fit in uint32
	durationMS = uint32(a.Duration().Milliseconds())
	if a.Repeat() {
		flags |= packet.FlagRepeat
	}
	return durationMS, flags
}

func (a *timing) owned() []resource.Resource { return nil }

func (a *timing) setup(d time.Duration) {
	if err := property.SetValue(a.props, animDuration, d); err != nil {
		panic("scene: " + err.Error())
	}
	a.dirty = false
}

var (
	vecFrom = property.New("From", f32.Vec3{})
	vecTo   = property.New("To", f32.Vec3{})
)

// Vector3Animation interpolates a vector from From to To.
type Vector3Animation struct {
	timing
}

// NewVector3Animation creates an animation running from -> to over d.
// It panics if d is negative.
func NewVector3Animation(from, to f32.Vec3, d time.Duration) *Vector3Animation {
	a := &Vector3Animation{}
	a.init(packet.TypeVector3Animation, a)
	_ = property.SetValue(a.props, vecFrom, from)
	_ = property.SetValue(a.props, vecTo, to)
	a.setup(d)
	return a
}

// From returns the start value.
func (a *Vector3Animation) From() f32.Vec3 { return property.Get(a.props, vecFrom) }

// To returns the end value.
func (a *Vector3Animation) To() f32.Vec3 { return property.Get(a.props, vecTo) }

// SetFrom changes the start value.
func (a *Vector3Animation) SetFrom(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &a.node, vecFrom, v)
}

// SetTo changes the end value.
func (a *Vector3Animation) SetTo(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &a.node, vecTo, v)
}

func (a *Vector3Animation) command(_ *resource.Session, _ *channel.Channel, h packet.Handle) packet.Command {
	ms, flags := a.wire()
	return packet.Vector3Animation{Handle: h, From: a.From(), To: a.To(), DurationMS: ms, Flags: flags}
}

func (a *Vector3Animation) ref() resource.Resource {
	if a == nil {
		return nil
	}
	return a
}

var (
	colorFrom = property.New("From", gputypes.ColorBlack)
	colorTo   = property.New("To", gputypes.ColorBlack)
)

// ColorAnimation interpolates a color from From to To.
type ColorAnimation struct {
	timing
}

// NewColorAnimation creates an animation running from -> to over d.
// It panics if d is negative.
func NewColorAnimation(from, to gputypes.Color, d time.Duration) *ColorAnimation {
	a := &ColorAnimation{}
	a.init(packet.TypeColorAnimation, a)
	_ = property.SetValue(a.props, colorFrom, from)
	_ = property.SetValue(a.props, colorTo, to)
	a.setup(d)
	return a
}

// From returns the start color.
func (a *ColorAnimation) From() gputypes.Color { return property.Get(a.props, colorFrom) }

// To returns the end color.
func (a *ColorAnimation) To() gputypes.Color { return property.Get(a.props, colorTo) }

// SetFrom changes the start color.
func (a *ColorAnimation) SetFrom(s *resource.Session, c gputypes.Color) error {
	return setValue(s, &a.node, colorFrom, c)
}

// SetTo changes the end color.
func (a *ColorAnimation) SetTo(s *resource.Session, c gputypes.Color) error {
	return setValue(s, &a.node, colorTo, c)
}

func (a *ColorAnimation) command(_ *resource.Session, _ *channel.Channel, h packet.Handle) packet.Command {
	ms, flags := a.wire()
	return packet.ColorAnimation{Handle: h, From: a.From(), To: a.To(), DurationMS: ms, Flags: flags}
}

func (a *ColorAnimation) ref() resource.Resource {
	if a == nil {
		return nil
	}
	return a
}

var (
	scalarFrom = property.New("From", float32(0))
	scalarTo   = property.New("To", float32(0))
)

// ScalarAnimation interpolates a number from From to To.
type ScalarAnimation struct {
	timing
}

// NewScalarAnimation creates an animation running from -> to over d.
// It panics if d is negative.
func NewScalarAnimation(from, to float32, d time.Duration) *ScalarAnimation {
	a := &ScalarAnimation{}
	a.init(packet.TypeScalarAnimation, a)
	_ = property.SetValue(a.props, scalarFrom, from)
	_ = property.SetValue(a.props, scalarTo, to)
	a.setup(d)
	return a
}

// From returns the start value.
func (a *ScalarAnimation) From() float32 { return property.Get(a.props, scalarFrom) }

// To returns the end value.
func (a *ScalarAnimation) To() float32 { return property.Get(a.props, scalarTo) }

// SetFrom changes the start value.
func (a *ScalarAnimation) SetFrom(s *resource.Session, v float32) error {
	return setValue(s, &a.node, scalarFrom, v)
}

// SetTo changes the end value.
func (a *ScalarAnimation) SetTo(s *resource.Session, v float32) error {
	return setValue(s, &a.node, scalarTo, v)
}

func (a *ScalarAnimation) command(_ *resource.Session, _ *channel.Channel, h packet.Handle) packet.Command {
	ms, flags := a.wire()
	return packet.ScalarAnimation{Handle: h, From: a.From(), To: a.To(), DurationMS: ms, Flags: flags}
}

func (a *ScalarAnimation) ref() resource.Resource {
	if a == nil {
		return nil
	}
	return a
}

package scene

import (
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

// Model3D is anything that can be placed in a Model3DGroup.
type Model3D interface {
	resource.Resource
	isModel()
}

// lightColor is shared by every light type.
var lightColor = property.New("Color", gputypes.ColorWhite, property.Animatable[gputypes.Color]())

// light holds the parts common to every light.
type light struct {
	node
}

func (l *light) isModel() {}

// Color returns the static light color.
func (l *light) Color() gputypes.Color { return property.Get(l.props, lightColor) }

// SetColor changes the static light color.
func (l *light) SetColor(s *resource.Session, c gputypes.Color) error {
	return setValue(s, &l.node, lightColor, c)
}

// ClearColor returns the color to its default, opaque white.
func (l *light) ClearColor(s *resource.Session) error {
	return clearValue(s, &l.node, lightColor)
}

// AnimateColor binds a to the color. A nil a restores the static color.
func (l *light) AnimateColor(s *resource.Session, a *ColorAnimation) error {
	return l.animate(s, lightColor, a.ref())
}

// ColorState reports whether the color is unset, set locally, or animated.
func (l *light) ColorState() property.State { return l.props.State(lightColor) }

// AmbientLight lights every surface equally.
type AmbientLight struct {
	light
}

func (l *AmbientLight) isNilNode() bool { return l == nil }

// NewAmbientLight creates an ambient light of color c.
func NewAmbientLight(c gputypes.Color) *AmbientLight {
	l := &AmbientLight{}
	l.init(packet.TypeAmbientLight, l)
	_ = property.SetValue(l.props, lightColor, c)
	l.dirty = false
	return l
}

func (l *AmbientLight) command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command {
	return packet.AmbientLight{
		Handle:         h,
		Color:          l.Color(),
		ColorAnimation: l.animHandle(s, ch, lightColor),
	}
}

func (l *AmbientLight) owned() []resource.Resource {
	return l.animations(lightColor)
}

var (
	directionalTransform = newTransformProperty("Transform")
	directionalDirection = property.New("Direction", f32.Vec3{0, 0, -1}, property.Animatable[f32.Vec3]())
)

// DirectionalLight lights surfaces from a fixed direction.
type DirectionalLight struct {
	light
}

func (l *DirectionalLight) isNilNode() bool { return l == nil }

// NewDirectionalLight creates a white light pointing down -Z.
func NewDirectionalLight() *DirectionalLight {
	l := &DirectionalLight{}
	l.init(packet.TypeDirectionalLight, l)
	return l
}

// Direction returns the static direction.
func (l *DirectionalLight) Direction() f32.Vec3 {
	return property.Get(l.props, directionalDirection)
}

// SetDirection changes the static direction.
func (l *DirectionalLight) SetDirection(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &l.node, directionalDirection, v)
}

// AnimateDirection binds a to the direction. A nil a restores the static
// direction.
func (l *DirectionalLight) AnimateDirection(s *resource.Session, a *Vector3Animation) error {
	return l.animate(s, directionalDirection, a.ref())
}

// Transform returns the light's transform, or nil.
func (l *DirectionalLight) Transform() Transform3D {
	return property.Get(l.props, directionalTransform)
}

// SetTransform replaces the light's transform. Nil and Identity both mean
// no transform.
func (l *DirectionalLight) SetTransform(s *resource.Session, t Transform3D) error {
	return setOwned(s, &l.node, directionalTransform, t)
}

func (l *DirectionalLight) command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command {
	return packet.DirectionalLight{
		Handle:             h,
		Transform:          transformHandle(s, l.Transform(), ch),
		Color:              l.Color(),
		ColorAnimation:     l.animHandle(s, ch, lightColor),
		Direction:          l.Direction(),
		DirectionAnimation: l.animHandle(s, ch, directionalDirection),
	}
}

func (l *DirectionalLight) owned() []resource.Resource {
	return append(ownedTransform(l.Transform()), l.animations(lightColor, directionalDirection)...)
}

var (
	pointTransform = newTransformProperty("Transform")
	pointPosition  = property.New("Position", f32.Vec3{}, property.Animatable[f32.Vec3]())
	pointRange     = property.New("Range", float32(math.Inf(1)),
		property.Animatable[float32](),
		property.Validate(func(r float32) error {
			if r < 0 || math.IsNaN(float64(r)) {
				return ErrInvalidRange
			}
			return nil
		}))
	pointConstant  = property.New("ConstantAttenuation", float32(1))
	pointLinear    = property.New("LinearAttenuation", float32(0))
	pointQuadratic = property.New("QuadraticAttenuation", float32(0))
)

// PointLight radiates from Position, fading with distance.
type PointLight struct {
	light
}

func (l *PointLight) isNilNode() bool { return l == nil }

// NewPointLight creates a white light at position p with unlimited range.
func NewPointLight(p f32.Vec3) *PointLight {
	l := &PointLight{}
	l.init(packet.TypePointLight, l)
	_ = property.SetValue(l.props, pointPosition, p)
	l.dirty = false
	return l
}

// Position returns the static position.
func (l *PointLight) Position() f32.Vec3 { return property.Get(l.props, pointPosition) }

// Range returns the static range. The default is +Inf.
func (l *PointLight) Range() float32 { return property.Get(l.props, pointRange) }

// Attenuation returns the constant, linear and quadratic attenuation
// factors.
func (l *PointLight) Attenuation() (constant, linear, quadratic float32) {
	return property.Get(l.props, pointConstant),
		property.Get(l.props, pointLinear),
		property.Get(l.props, pointQuadratic)
}

// SetPosition changes the static position.
func (l *PointLight) SetPosition(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &l.node, pointPosition, v)
}

// SetRange changes the static range.
func (l *PointLight) SetRange(s *resource.Session, r float32) error {
	return setValue(s, &l.node, pointRange, r)
}

// SetAttenuation changes all three attenuation factors in one update.
func (l *PointLight) SetAttenuation(s *resource.Session, constant, linear, quadratic float32) error {
	return l.Batch(s, func() error {
		if err := property.SetValue(l.props, pointConstant, constant); err != nil {
			return err
		}
		if err := property.SetValue(l.props, pointLinear, linear); err != nil {
			return err
		}
		return property.SetValue(l.props, pointQuadratic, quadratic)
	})
}

// AnimatePosition binds a to the position. A nil a restores the static
// position.
func (l *PointLight) AnimatePosition(s *resource.Session, a *Vector3Animation) error {
	return l.animate(s, pointPosition, a.ref())
}

// AnimateRange binds a to the range. A nil a restores the static range.
func (l *PointLight) AnimateRange(s *resource.Session, a *ScalarAnimation) error {
	return l.animate(s, pointRange, a.ref())
}

// Transform returns the light's transform, or nil.
func (l *PointLight) Transform() Transform3D { return property.Get(l.props, pointTransform) }

// SetTransform replaces the light's transform. Nil and Identity both mean
// no transform.
func (l *PointLight) SetTransform(s *resource.Session, t Transform3D) error {
	return setOwned(s, &l.node, pointTransform, t)
}

func (l *PointLight) command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command {
	c, lin, q := l.Attenuation()
	return packet.PointLight{
		Handle:               h,
		Transform:            transformHandle(s, l.Transform(), ch),
		Color:                l.Color(),
		ColorAnimation:       l.animHandle(s, ch, lightColor),
		Position:             l.Position(),
		PositionAnimation:    l.animHandle(s, ch, pointPosition),
		Range:                l.Range(),
		RangeAnimation:       l.animHandle(s, ch, pointRange),
		ConstantAttenuation:  c,
		LinearAttenuation:    lin,
		QuadraticAttenuation: q,
	}
}

func (l *PointLight) owned() []resource.Resource {
	return append(ownedTransform(l.Transform()), l.animations(lightColor, pointPosition, pointRange)...)
}

package scene

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

// Transform3D is a resource that positions a light or group in space.
type Transform3D interface {
	resource.Resource
	// Value returns the transform's current static matrix, row-major.
	// Bound animations are not evaluated.
	Value() f32.Mat4
}

// Identity is the shared identity transform. It is never mirrored: owners
// encode it as packet.NullHandle, and adding or releasing it is a no-op.
var Identity Transform3D = identity{}

type identity struct{}

func (identity) AddRefOnChannel(*resource.Session, *channel.Channel) (packet.Handle, error) {
	return packet.NullHandle, nil
}

func (identity) ReleaseOnChannel(*resource.Session, *channel.Channel) error { return nil }

func (identity) Handle(*resource.Session, *channel.Channel) (packet.Handle, error) {
	return packet.NullHandle, nil
}

func (identity) Value() f32.Mat4 { return identityMatrix }

var identityMatrix = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// transformHandle resolves t on ch. Nil and Identity are NullHandle.
func transformHandle(s *resource.Session, t Transform3D, ch *channel.Channel) packet.Handle {
	if isNil(t) {
		return packet.NullHandle
	}
	return resource.HandleOf(s, t, ch)
}

// ownedTransform returns t as a sub-resource list, empty for nil.
func ownedTransform(t Transform3D) []resource.Resource {
	if isNil(t) || t == Identity {
		return nil
	}
	return []resource.Resource{t}
}

// newTransformProperty declares a transform slot for a node type.
func newTransformProperty(name string) *property.Descriptor[Transform3D] {
	return property.New[Transform3D](name, nil, property.Equal(sameResource[Transform3D]))
}

var translateOffset = property.New("Offset", f32.Vec3{}, property.Animatable[f32.Vec3]())

// TranslateTransform3D moves its target by Offset.
type TranslateTransform3D struct {
	node
}

func (t *TranslateTransform3D) isNilNode() bool { return t == nil }

// NewTranslateTransform3D creates a translation by offset.
func NewTranslateTransform3D(offset f32.Vec3) *TranslateTransform3D {
	t := &TranslateTransform3D{}
	t.init(packet.TypeTranslateTransform3D, t)
	_ = property.SetValue(t.props, translateOffset, offset)
	t.dirty = false
	return t
}

// Offset returns the static offset.
func (t *TranslateTransform3D) Offset() f32.Vec3 { return property.Get(t.props, translateOffset) }

// SetOffset changes the static offset.
func (t *TranslateTransform3D) SetOffset(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &t.node, translateOffset, v)
}

// AnimateOffset binds a to the offset. A nil a restores the static offset.
func (t *TranslateTransform3D) AnimateOffset(s *resource.Session, a *Vector3Animation) error {
	return t.animate(s, translateOffset, a.ref())
}

// Value returns the translation matrix for the static offset.
func (t *TranslateTransform3D) Value() f32.Mat4 {
	o := t.Offset()
	m := identityMatrix
	m[3], m[7], m[11] = o[0], o[1], o[2]
	return m
}

func (t *TranslateTransform3D) command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command {
	return packet.TranslateTransform3D{
		Handle:          h,
		Offset:          t.Offset(),
		OffsetAnimation: t.animHandle(s, ch, translateOffset),
	}
}

func (t *TranslateTransform3D) owned() []resource.Resource {
	return t.animations(translateOffset)
}

var (
	scaleFactor = property.New("Scale", f32.Vec3{1, 1, 1}, property.Animatable[f32.Vec3]())
	scaleCenter = property.New("Center", f32.Vec3{})
)

// ScaleTransform3D scales its target about Center.
type ScaleTransform3D struct {
	node
}

func (t *ScaleTransform3D) isNilNode() bool { return t == nil }

// NewScaleTransform3D creates a scale by factor about the origin.
func NewScaleTransform3D(factor f32.Vec3) *ScaleTransform3D {
	t := &ScaleTransform3D{}
	t.init(packet.TypeScaleTransform3D, t)
	_ = property.SetValue(t.props, scaleFactor, factor)
	t.dirty = false
	return t
}

// Scale returns the static scale factor.
func (t *ScaleTransform3D) Scale() f32.Vec3 { return property.Get(t.props, scaleFactor) }

// Center returns the point the scale is applied about.
func (t *ScaleTransform3D) Center() f32.Vec3 { return property.Get(t.props, scaleCenter) }

// SetScale changes the static scale factor.
func (t *ScaleTransform3D) SetScale(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &t.node, scaleFactor, v)
}

// SetCenter changes the scale center.
func (t *ScaleTransform3D) SetCenter(s *resource.Session, v f32.Vec3) error {
	return setValue(s, &t.node, scaleCenter, v)
}

// AnimateScale binds a to the scale factor. A nil a restores the static
// factor.
func (t *ScaleTransform3D) AnimateScale(s *resource.Session, a *Vector3Animation) error {
	return t.animate(s, scaleFactor, a.ref())
}

// Value returns the scale matrix for the static factor and center.
func (t *ScaleTransform3D) Value() f32.Mat4 {
	k, c := t.Scale(), t.Center()
	m := identityMatrix
	m[0], m[5], m[10] = k[0], k[1], k[2]
	m[3] = c[0] - k[0]*c[0]
	m[7] = c[1] - k[1]*c[1]
	m[11] = c[2] - k[2]*c[2]
	return m
}

func (t *ScaleTransform3D) command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command {
	return packet.ScaleTransform3D{
		Handle:         h,
		Scale:          t.Scale(),
		ScaleAnimation: t.animHandle(s, ch, scaleFactor),
		Center:         t.Center(),
	}
}

func (t *ScaleTransform3D) owned() []resource.Resource {
	return t.animations(scaleFactor)
}

var matrixValue = property.New("Matrix", identityMatrix)

// MatrixTransform3D applies an arbitrary row-major matrix.
type MatrixTransform3D struct {
	node
}

func (t *MatrixTransform3D) isNilNode() bool { return t == nil }

// NewMatrixTransform3D creates a transform from m.
func NewMatrixTransform3D(m f32.Mat4) *MatrixTransform3D {
	t := &MatrixTransform3D{}
	t.init(packet.TypeMatrixTransform3D, t)
	_ = property.SetValue(t.props, matrixValue, m)
	t.dirty = false
	return t
}

// Value returns the matrix.
func (t *MatrixTransform3D) Value() f32.Mat4 { return property.Get(t.props, matrixValue) }

// SetValue replaces the matrix.
func (t *MatrixTransform3D) SetValue(s *resource.Session, m f32.Mat4) error {
	return setValue(s, &t.node, matrixValue, m)
}

func (t *MatrixTransform3D) command(_ *resource.Session, _ *channel.Channel, h packet.Handle) packet.Command {
	return packet.MatrixTransform3D{Handle: h, Matrix: t.Value()}
}

func (t *MatrixTransform3D) owned() []resource.Resource { return nil }

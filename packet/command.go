package packet

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Command is a single record sent on a channel.
//
// The set of commands is closed: only the types in this package implement
// Command, and Decode knows how to rebuild each of them.
type Command interface {
	// Tag returns the record's command tag.
	Tag() Tag
	// Target returns the handle the record applies to.
	Target() Handle

	appendBody(w *writer)
}

// Repeat flag for animation records.
const FlagRepeat uint32 = 1 << 0

// Geometry flags.
const (
	// FlagClosed marks a closed figure.
	FlagClosed uint32 = 1 << 0
	// FlagEmpty marks the explicit empty geometry. Count is always zero.
	FlagEmpty uint32 = 1 << 1
)

// FillRule selects how the interior of a geometry is determined.
type FillRule uint32

const (
	// FillEvenOdd uses the even-odd rule.
	FillEvenOdd FillRule = 0
	// FillNonZero uses the non-zero winding rule.
	FillNonZero FillRule = 1
)

// String returns the fill rule name.
func (f FillRule) String() string {
	switch f {
	case FillEvenOdd:
		return "EvenOdd"
	case FillNonZero:
		return "NonZero"
	default:
		return unknownStr
	}
}

// Hello opens a channel and announces the protocol version.
type Hello struct {
	Version uint32
}

func (Hello) Tag() Tag               { return TagHello }
func (Hello) Target() Handle         { return NullHandle }
func (c Hello) appendBody(w *writer) { w.u32(c.Version) }
func (c *Hello) readBody(r *reader)  { c.Version = r.u32() }

// CreateResource asks the receiver to allocate a mirror for Handle.
type CreateResource struct {
	Handle Handle
	Type   Type
}

func (CreateResource) Tag() Tag               { return TagCreateResource }
func (c CreateResource) Target() Handle       { return c.Handle }
func (c CreateResource) appendBody(w *writer) { w.u32(uint32(c.Type)) }
func (c *CreateResource) readBody(r *reader)  { c.Type = Type(r.u32()) }

// ReleaseResource tells the receiver that no reference to Handle remains on
// the channel. The receiver may free the mirror.
type ReleaseResource struct {
	Handle Handle
}

func (ReleaseResource) Tag() Tag           { return TagReleaseResource }
func (c ReleaseResource) Target() Handle   { return c.Handle }
func (ReleaseResource) appendBody(*writer) {}
func (*ReleaseResource) readBody(*reader)  {}

// AmbientLight is the update record for an ambient light.
type AmbientLight struct {
	Handle         Handle
	Color          gputypes.Color
	ColorAnimation Handle
}

func (AmbientLight) Tag() Tag         { return TagAmbientLight }
func (c AmbientLight) Target() Handle { return c.Handle }

func (c AmbientLight) appendBody(w *writer) {
	w.colorSlot(c.Color, c.ColorAnimation)
}

func (c *AmbientLight) readBody(r *reader) {
	c.Color, c.ColorAnimation = r.colorSlot()
}

// DirectionalLight is the update record for a directional light.
type DirectionalLight struct {
	Handle             Handle
	Transform          Handle
	Color              gputypes.Color
	ColorAnimation     Handle
	Direction          f32.Vec3
	DirectionAnimation Handle
}

func (DirectionalLight) Tag() Tag         { return TagDirectionalLight }
func (c DirectionalLight) Target() Handle { return c.Handle }

func (c DirectionalLight) appendBody(w *writer) {
	w.handle(c.Transform)
	w.colorSlot(c.Color, c.ColorAnimation)
	w.vec3Slot(c.Direction, c.DirectionAnimation)
}

func (c *DirectionalLight) readBody(r *reader) {
	c.Transform = r.handle()
	c.Color, c.ColorAnimation = r.colorSlot()
	c.Direction, c.DirectionAnimation = r.vec3Slot()
}

// PointLight is the update record for a point light.
type PointLight struct {
	Handle               Handle
	Transform            Handle
	Color                gputypes.Color
	ColorAnimation       Handle
	Position             f32.Vec3
	PositionAnimation    Handle
	Range                float32
	RangeAnimation       Handle
	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32
}

func (PointLight) Tag() Tag         { return TagPointLight }
func (c PointLight) Target() Handle { return c.Handle }

func (c PointLight) appendBody(w *writer) {
	w.handle(c.Transform)
	w.colorSlot(c.Color, c.ColorAnimation)
	w.vec3Slot(c.Position, c.PositionAnimation)
	w.floatSlot(c.Range, c.RangeAnimation)
	w.f32(c.ConstantAttenuation)
	w.f32(c.LinearAttenuation)
	w.f32(c.QuadraticAttenuation)
}

func (c *PointLight) readBody(r *reader) {
	c.Transform = r.handle()
	c.Color, c.ColorAnimation = r.colorSlot()
	c.Position, c.PositionAnimation = r.vec3Slot()
	c.Range, c.RangeAnimation = r.floatSlot()
	c.ConstantAttenuation = r.f32()
	c.LinearAttenuation = r.f32()
	c.QuadraticAttenuation = r.f32()
}

// TranslateTransform3D is the update record for a translation.
type TranslateTransform3D struct {
	Handle          Handle
	Offset          f32.Vec3
	OffsetAnimation Handle
}

func (TranslateTransform3D) Tag() Tag         { return TagTranslateTransform3D }
func (c TranslateTransform3D) Target() Handle { return c.Handle }

func (c TranslateTransform3D) appendBody(w *writer) {
	w.vec3Slot(c.Offset, c.OffsetAnimation)
}

func (c *TranslateTransform3D) readBody(r *reader) {
	c.Offset, c.OffsetAnimation = r.vec3Slot()
}

// ScaleTransform3D is the update record for a scale about a center point.
type ScaleTransform3D struct {
	Handle         Handle
	Scale          f32.Vec3
	ScaleAnimation Handle
	Center         f32.Vec3
}

func (ScaleTransform3D) Tag() Tag         { return TagScaleTransform3D }
func (c ScaleTransform3D) Target() Handle { return c.Handle }

func (c ScaleTransform3D) appendBody(w *writer) {
	w.vec3Slot(c.Scale, c.ScaleAnimation)
	w.vec3(c.Center)
}

func (c *ScaleTransform3D) readBody(r *reader) {
	c.Scale, c.ScaleAnimation = r.vec3Slot()
	c.Center = r.vec3()
}

// MatrixTransform3D is the update record for an arbitrary matrix transform.
type MatrixTransform3D struct {
	Handle Handle
	Matrix f32.Mat4
}

func (MatrixTransform3D) Tag() Tag         { return TagMatrixTransform3D }
func (c MatrixTransform3D) Target() Handle { return c.Handle }

func (c MatrixTransform3D) appendBody(w *writer) {
	for _, v := range c.Matrix {
		w.f32(v)
	}
}

func (c *MatrixTransform3D) readBody(r *reader) {
	for i := range c.Matrix {
		c.Matrix[i] = r.f32()
	}
}

// Vector3Animation is the update record for a from/to vector animation.
type Vector3Animation struct {
	Handle     Handle
	From       f32.Vec3
	To         f32.Vec3
	DurationMS uint32
	Flags      uint32
}

func (Vector3Animation) Tag() Tag         { return TagVector3Animation }
func (c Vector3Animation) Target() Handle { return c.Handle }

func (c Vector3Animation) appendBody(w *writer) {
	w.vec3(c.From)
	w.vec3(c.To)
	w.u32(c.DurationMS)
	w.u32(c.Flags)
}

func (c *Vector3Animation) readBody(r *reader) {
	c.From = r.vec3()
	c.To = r.vec3()
	c.DurationMS = r.u32()
	c.Flags = r.u32()
}

// ColorAnimation is the update record for a from/to color animation.
type ColorAnimation struct {
	Handle     Handle
	From       gputypes.Color
	To         gputypes.Color
	DurationMS uint32
	Flags      uint32
}

func (ColorAnimation) Tag() Tag         { return TagColorAnimation }
func (c ColorAnimation) Target() Handle { return c.Handle }

func (c ColorAnimation) appendBody(w *writer) {
	w.color(c.From)
	w.color(c.To)
	w.u32(c.DurationMS)
	w.u32(c.Flags)
}

func (c *ColorAnimation) readBody(r *reader) {
	c.From = r.color()
	c.To = r.color()
	c.DurationMS = r.u32()
	c.Flags = r.u32()
}

// ScalarAnimation is the update record for a from/to scalar animation.
type ScalarAnimation struct {
	Handle     Handle
	From       float32
	To         float32
	DurationMS uint32
	Flags      uint32
}

func (ScalarAnimation) Tag() Tag         { return TagScalarAnimation }
func (c ScalarAnimation) Target() Handle { return c.Handle }

func (c ScalarAnimation) appendBody(w *writer) {
	w.f32(c.From)
	w.f32(c.To)
	w.u32(c.DurationMS)
	w.u32(c.Flags)
}

func (c *ScalarAnimation) readBody(r *reader) {
	c.From = r.f32()
	c.To = r.f32()
	c.DurationMS = r.u32()
	c.Flags = r.u32()
}

// PathGeometry is the update record for a single-figure polygon geometry.
type PathGeometry struct {
	Handle   Handle
	FillRule FillRule
	Flags    uint32
	Points   []f32.Vec2
}

func (PathGeometry) Tag() Tag         { return TagPathGeometry }
func (c PathGeometry) Target() Handle { return c.Handle }

// IsEmpty reports whether c is the explicit empty geometry.
func (c PathGeometry) IsEmpty() bool { return c.Flags&FlagEmpty != 0 }

func (c PathGeometry) appendBody(w *writer) {
	w.u32(uint32(c.FillRule))
	if len(c.Points) == 0 {
		w.u32(FlagEmpty)
		w.u32(0)
		return
	}
	w.u32(c.Flags &^ FlagEmpty)
	// #nosec G115 -- point count is bounded by available memory, well under uint32 max
	w.u32(uint32(len(c.Points)))
	for _, p := range c.Points {
		w.f32(p[0])
		w.f32(p[1])
	}
}

func (c *PathGeometry) readBody(r *reader) {
	c.FillRule = FillRule(r.u32())
	c.Flags = r.u32()
	n := r.count(8)
	if n == 0 {
		c.Points = nil
		return
	}
	c.Points = make([]f32.Vec2, n)
	for i := range c.Points {
		c.Points[i] = f32.Vec2{r.f32(), r.f32()}
	}
}

// Model3DGroup is the update record for a group of models or lights.
type Model3DGroup struct {
	Handle    Handle
	Transform Handle
	Children  []Handle
}

func (Model3DGroup) Tag() Tag         { return TagModel3DGroup }
func (c Model3DGroup) Target() Handle { return c.Handle }

func (c Model3DGroup) appendBody(w *writer) {
	w.handle(c.Transform)
	// #nosec G115 -- child count is bounded by available memory, well under uint32 max
	w.u32(uint32(len(c.Children)))
	for _, h := range c.Children {
		w.handle(h)
	}
}

func (c *Model3DGroup) readBody(r *reader) {
	c.Transform = r.handle()
	n := r.count(4)
	if n == 0 {
		c.Children = nil
		return
	}
	c.Children = make([]Handle, n)
	for i := range c.Children {
		c.Children[i] = r.handle()
	}
}

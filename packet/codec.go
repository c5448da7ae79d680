package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// HeaderSize is the size of the fixed record header in bytes.
const HeaderSize = 8

// Decode errors.
var (
	// ErrShortPacket is returned when a frame ends before its record does.
	ErrShortPacket = errors.New("packet: short packet")

	// ErrUnknownTag is returned for a frame whose tag is not defined.
	ErrUnknownTag = errors.New("packet: unknown tag")

	// ErrTrailingBytes is returned when a frame is longer than its record.
	ErrTrailingBytes = errors.New("packet: trailing bytes")
)

// Size returns the encoded size of cmd in bytes.
func Size(cmd Command) int {
	n := HeaderSize + cmd.Tag().bodySize()
	switch c := cmd.(type) {
	case PathGeometry:
		n += len(c.Points) * 8
	case Model3DGroup:
		n += len(c.Children) * 4
	}
	return n
}

// Encode returns the wire form of cmd.
func Encode(cmd Command) []byte {
	return Append(make([]byte, 0, Size(cmd)), cmd)
}

// Append appends the wire form of cmd to dst and returns the extended slice.
func Append(dst []byte, cmd Command) []byte {
	w := writer{b: dst}
	w.b = append(w.b, byte(cmd.Tag()), 0, 0, 0)
	w.handle(cmd.Target())
	cmd.appendBody(&w)
	return w.b
}

// Decode parses a single record from frame. The frame must contain exactly
// one record.
func Decode(frame []byte) (Command, error) {
	if len(frame) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortPacket, len(frame), HeaderSize)
	}
	tag := Tag(frame[0])
	size := tag.bodySize()
	if size < 0 || tag == TagInvalid {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, byte(tag))
	}
	if len(frame) < HeaderSize+size {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortPacket, tag, HeaderSize+size, len(frame))
	}

	r := reader{b: frame, off: 4}
	target := r.handle()

	var cmd Command
	switch tag {
	case TagHello:
		var c Hello
		c.readBody(&r)
		cmd = c
	case TagCreateResource:
		c := CreateResource{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagReleaseResource:
		cmd = ReleaseResource{Handle: target}
	case TagAmbientLight:
		c := AmbientLight{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagDirectionalLight:
		c := DirectionalLight{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagPointLight:
		c := PointLight{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagTranslateTransform3D:
		c := TranslateTransform3D{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagScaleTransform3D:
		c := ScaleTransform3D{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagMatrixTransform3D:
		c := MatrixTransform3D{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagVector3Animation:
		c := Vector3Animation{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagColorAnimation:
		c := ColorAnimation{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagScalarAnimation:
		c := ScalarAnimation{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagPathGeometry:
		c := PathGeometry{Handle: target}
		c.readBody(&r)
		cmd = c
	case TagModel3DGroup:
		c := Model3DGroup{Handle: target}
		c.readBody(&r)
		cmd = c
	}

	if r.err != nil {
		return nil, fmt.Errorf("%s: %w", tag, r.err)
	}
	if r.off != len(frame) {
		return nil, fmt.Errorf("%w: %s has %d extra bytes", ErrTrailingBytes, tag, len(frame)-r.off)
	}
	return cmd, nil
}

// writer appends little-endian primitives to a byte slice.
type writer struct {
	b []byte
}

func (w *writer) u32(v uint32)    { w.b = binary.LittleEndian.AppendUint32(w.b, v) }
func (w *writer) f32(v float32)   { w.u32(math.Float32bits(v)) }
func (w *writer) handle(h Handle) { w.u32(uint32(h)) }

func (w *writer) vec3(v f32.Vec3) {
	w.f32(v[0])
	w.f32(v[1])
	w.f32(v[2])
}

func (w *writer) color(c gputypes.Color) {
	w.f32(float32(c.R))
	w.f32(float32(c.G))
	w.f32(float32(c.B))
	w.f32(float32(c.A))
}

// colorSlot writes a static color and its animation handle. The static value
// is zeroed when the animation handle is set.
func (w *writer) colorSlot(c gputypes.Color, anim Handle) {
	if !anim.IsNull() {
		c = gputypes.Color{}
	}
	w.color(c)
	w.handle(anim)
}

func (w *writer) vec3Slot(v f32.Vec3, anim Handle) {
	if !anim.IsNull() {
		v = f32.Vec3{}
	}
	w.vec3(v)
	w.handle(anim)
}

func (w *writer) floatSlot(v float32, anim Handle) {
	if !anim.IsNull() {
		v = 0
	}
	w.f32(v)
	w.handle(anim)
}

// reader consumes little-endian primitives. The first short read sets err
// and every later read returns zero values.
type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	if len(r.b)-r.off < 4 {
		r.err = ErrShortPacket
		return 0
	}
	v := binary.LittleEndian.Uint32(r.b[r.off:])
	r.off += 4
	return v
}

func (r *reader) f32() float32   { return math.Float32frombits(r.u32()) }
func (r *reader) handle() Handle { return Handle(r.u32()) }
func (r *reader) vec3() f32.Vec3 { return f32.Vec3{r.f32(), r.f32(), r.f32()} }

func (r *reader) color() gputypes.Color {
	return gputypes.Color{
		R: float64(r.f32()),
		G: float64(r.f32()),
		B: float64(r.f32()),
		A: float64(r.f32()),
	}
}

func (r *reader) colorSlot() (gputypes.Color, Handle) { return r.color(), r.handle() }
func (r *reader) vec3Slot() (f32.Vec3, Handle)        { return r.vec3(), r.handle() }
func (r *reader) floatSlot() (float32, Handle)        { return r.f32(), r.handle() }

// count reads a list length and checks that itemSize*n bytes remain.
func (r *reader) count(itemSize int) int {
	n := int(r.u32())
	if r.err != nil {
		return 0
	}
	if n < 0 || (len(r.b)-r.off)/itemSize < n {
		r.err = ErrShortPacket
		return 0
	}
	return n
}

package packet

// Tag is the single-byte command identifier at the start of every record.
// Tags are organized into groups by their high nibble:
//
//	0x0X: Channel control (hello, create, release)
//	0x1X: Lights
//	0x2X: Transforms
//	0x3X: Animations
//	0x4X: Geometry
//	0x5X: Groups
type Tag byte

// Tag constants. Each tag has a fixed body layout documented in its comment.
const (
	// TagInvalid is never written to a channel.
	TagInvalid Tag = 0x00

	// TagHello opens a channel.
	// Body: 1 uint32 protocol version. Target is always null.
	TagHello Tag = 0x01

	// TagCreateResource allocates a remote mirror.
	// Body: 1 uint16 resource type, 2 bytes padding.
	TagCreateResource Tag = 0x02

	// TagReleaseResource is the zero-ref notification for a handle.
	// Body: none.
	TagReleaseResource Tag = 0x03

	// TagAmbientLight updates an ambient light.
	// Body: color slot (4 float32 + 1 uint32).
	TagAmbientLight Tag = 0x10

	// TagDirectionalLight updates a directional light.
	// Body: 1 uint32 transform handle, color slot, direction slot (3 float32 + 1 uint32).
	TagDirectionalLight Tag = 0x11

	// TagPointLight updates a point light.
	// Body: 1 uint32 transform handle, color slot, position slot, range slot
	// (1 float32 + 1 uint32), 3 float32 attenuation [constant, linear, quadratic].
	TagPointLight Tag = 0x12

	// TagTranslateTransform3D updates a translation.
	// Body: offset slot (3 float32 + 1 uint32).
	TagTranslateTransform3D Tag = 0x20

	// TagScaleTransform3D updates a scale about a center.
	// Body: scale slot (3 float32 + 1 uint32), 3 float32 center.
	TagScaleTransform3D Tag = 0x21

	// TagMatrixTransform3D updates an arbitrary affine transform.
	// Body: 16 float32, row-major.
	TagMatrixTransform3D Tag = 0x22

	// TagVector3Animation updates a vector animation.
	// Body: 3 float32 from, 3 float32 to, 1 uint32 duration ms, 1 uint32 flags.
	TagVector3Animation Tag = 0x30

	// TagColorAnimation updates a color animation.
	// Body: 4 float32 from, 4 float32 to, 1 uint32 duration ms, 1 uint32 flags.
	TagColorAnimation Tag = 0x31

	// TagScalarAnimation updates a scalar animation.
	// Body: 1 float32 from, 1 float32 to, 1 uint32 duration ms, 1 uint32 flags.
	TagScalarAnimation Tag = 0x32

	// TagPathGeometry updates a polygon geometry.
	// Body: 1 uint32 fill rule, 1 uint32 flags, 1 uint32 count, count × 2 float32.
	TagPathGeometry Tag = 0x40

	// TagModel3DGroup updates a model group.
	// Body: 1 uint32 transform handle, 1 uint32 count, count × uint32 child handles.
	TagModel3DGroup Tag = 0x50
)

// String returns a human-readable name for the tag.
func (t Tag) String() string {
	switch t {
	case TagHello:
		return "Hello"
	case TagCreateResource:
		return "CreateResource"
	case TagReleaseResource:
		return "ReleaseResource"
	case TagAmbientLight:
		return "AmbientLight"
	case TagDirectionalLight:
		return "DirectionalLight"
	case TagPointLight:
		return "PointLight"
	case TagTranslateTransform3D:
		return "TranslateTransform3D"
	case TagScaleTransform3D:
		return "ScaleTransform3D"
	case TagMatrixTransform3D:
		return "MatrixTransform3D"
	case TagVector3Animation:
		return "Vector3Animation"
	case TagColorAnimation:
		return "ColorAnimation"
	case TagScalarAnimation:
		return "ScalarAnimation"
	case TagPathGeometry:
		return "PathGeometry"
	case TagModel3DGroup:
		return "Model3DGroup"
	default:
		return unknownStr
	}
}

// IsControl reports whether the tag is a channel control record rather than
// a resource update.
func (t Tag) IsControl() bool {
	return t >= TagHello && t <= TagReleaseResource
}

// bodySize returns the fixed body size in bytes for t, excluding any
// counted list. It returns -1 for unknown tags.
func (t Tag) bodySize() int {
	const (
		u32   = 4
		vec3  = 3 * 4
		color = 4 * 4
	)
	switch t {
	case TagHello:
		return u32
	case TagCreateResource:
		return u32
	case TagReleaseResource:
		return 0
	case TagAmbientLight:
		return color + u32
	case TagDirectionalLight:
		return u32 + (color + u32) + (vec3 + u32)
	case TagPointLight:
		return u32 + (color + u32) + (vec3 + u32) + (4 + u32) + 3*4
	case TagTranslateTransform3D:
		return vec3 + u32
	case TagScaleTransform3D:
		return vec3 + u32 + vec3
	case TagMatrixTransform3D:
		return 16 * 4
	case TagVector3Animation:
		return 2*vec3 + 2*u32
	case TagColorAnimation:
		return 2*color + 2*u32
	case TagScalarAnimation:
		return 4 * u32
	case TagPathGeometry:
		return 3 * u32
	case TagModel3DGroup:
		return 2 * u32
	default:
		return -1
	}
}

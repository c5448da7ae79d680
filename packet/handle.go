// Package packet defines the wire records exchanged between scene objects and
// a remote compositor.
//
// Every record starts with a fixed 8-byte header:
//
//	| tag u8 | pad [3]u8 | target u32 |
//
// followed by the record body. Bodies are fixed-size per tag, except for
// PathGeometry and Model3DGroup which end in a counted list. All integers
// and floats are little-endian; floats are IEEE-754 binary32.
//
// Animatable properties occupy a slot made of the static value followed by
// an animation handle. When the animation handle is not [NullHandle] the
// static value bytes are zero, so the receiver never has to decide which of
// the two to trust.
package packet

import "strconv"

// Handle is an opaque per-channel identifier for a remote resource.
// Handles are only meaningful on the channel that allocated them.
type Handle uint32

// NullHandle is the sentinel for "no resource". It encodes "no animation"
// in animation slots and "no transform" in transform slots.
const NullHandle Handle = 0

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool { return h == NullHandle }

// String returns "null" for the null handle and the decimal id otherwise.
func (h Handle) String() string {
	if h == NullHandle {
		return "null"
	}
	return strconv.FormatUint(uint64(h), 10)
}

// Type identifies the kind of a remote resource. It is carried by
// CreateResource so the receiver can allocate the right mirror.
type Type uint16

// Resource types.
const (
	TypeNone Type = iota
	TypeAmbientLight
	TypeDirectionalLight
	TypePointLight
	TypeTranslateTransform3D
	TypeScaleTransform3D
	TypeMatrixTransform3D
	TypeVector3Animation
	TypeColorAnimation
	TypeScalarAnimation
	TypePathGeometry
	TypeModel3DGroup
)

const unknownStr = "Unknown"

// String returns a human-readable name for the resource type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeAmbientLight:
		return "AmbientLight"
	case TypeDirectionalLight:
		return "DirectionalLight"
	case TypePointLight:
		return "PointLight"
	case TypeTranslateTransform3D:
		return "TranslateTransform3D"
	case TypeScaleTransform3D:
		return "ScaleTransform3D"
	case TypeMatrixTransform3D:
		return "MatrixTransform3D"
	case TypeVector3Animation:
		return "Vector3Animation"
	case TypeColorAnimation:
		return "ColorAnimation"
	case TypeScalarAnimation:
		return "ScalarAnimation"
	case TypePathGeometry:
		return "PathGeometry"
	case TypeModel3DGroup:
		return "Model3DGroup"
	default:
		return unknownStr
	}
}

// UpdateTag returns the tag of the update record for resources of type t,
// or TagInvalid if t has no update record.
func (t Type) UpdateTag() Tag {
	switch t {
	case TypeAmbientLight:
		return TagAmbientLight
	case TypeDirectionalLight:
		return TagDirectionalLight
	case TypePointLight:
		return TagPointLight
	case TypeTranslateTransform3D:
		return TagTranslateTransform3D
	case TypeScaleTransform3D:
		return TagScaleTransform3D
	case TypeMatrixTransform3D:
		return TagMatrixTransform3D
	case TypeVector3Animation:
		return TagVector3Animation
	case TypeColorAnimation:
		return TagColorAnimation
	case TypeScalarAnimation:
		return TagScalarAnimation
	case TypePathGeometry:
		return TagPathGeometry
	case TypeModel3DGroup:
		return TagModel3DGroup
	default:
		return TagInvalid
	}
}

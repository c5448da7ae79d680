package scene

import "errors"

var (
	// ErrInvalidDuration is returned for negative animation durations or
	// ones too long to encode.
	ErrInvalidDuration = errors.New("scene: invalid animation duration")

	// ErrInvalidFillRule is returned for fill rules other than EvenOdd and
	// NonZero.
	ErrInvalidFillRule = errors.New("scene: invalid fill rule")

	// ErrInvalidRange is returned for negative or NaN point light ranges.
	ErrInvalidRange = errors.New("scene: invalid light range")
)

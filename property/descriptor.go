// Package property is the minimal typed property store that scene nodes
// consume: immutable descriptors with defaults, per-object values, animation
// bindings, and batched change notification.
//
// It intentionally knows nothing about channels. A node reads values with
// Get, asks State whether a property is animated, and reacts to OnChanged.
package property

import (
	"fmt"
	"reflect"
)

// State is the per-object state of one property.
type State uint8

const (
	// Unset means the property reports its descriptor default.
	Unset State = iota
	// Set means a local value was assigned.
	Set
	// Animated means an animation binding overrides the static value on the wire.
	Animated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unset:
		return "Unset"
	case Set:
		return "Set"
	case Animated:
		return "Animated"
	default:
		return "Unknown"
	}
}

// Key is the untyped view of a Descriptor, used where the value type does
// not matter (change notification, animation bindings).
type Key interface {
	Name() string
	Animatable() bool
	isKey()
}

// Descriptor declares a property of type T. Descriptors are created once at
// package initialization and never mutated; the default value is returned by
// value.
type Descriptor[T any] struct {
	name       string
	def        T
	animatable bool
	validate   func(T) error
	equal      func(a, b T) bool
}

// Option configures a Descriptor.
type Option[T any] func(*Descriptor[T])

// Animatable allows the property to be bound to an animation.
func Animatable[T any]() Option[T] {
	return func(d *Descriptor[T]) { d.animatable = true }
}

// Validate rejects values for which fn returns an error.
func Validate[T any](fn func(T) error) Option[T] {
	return func(d *Descriptor[T]) { d.validate = fn }
}

// Equal replaces the deep-equality check used to decide whether an
// assignment is a change. Reference-valued properties such as sub-resources
// use identity.
func Equal[T any](fn func(a, b T) bool) Option[T] {
	return func(d *Descriptor[T]) { d.equal = fn }
}

// New declares a property named name with default value def.
func New[T any](name string, def T, opts ...Option[T]) *Descriptor[T] {
	d := &Descriptor[T]{name: name, def: def}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the property name.
func (d *Descriptor[T]) Name() string { return d.name }

// Default returns the default value.
func (d *Descriptor[T]) Default() T { return d.def }

// Animatable reports whether the property accepts animation bindings.
func (d *Descriptor[T]) Animatable() bool { return d.animatable }

// String returns the property name.
func (d *Descriptor[T]) String() string { return d.name }

func (d *Descriptor[T]) isKey() {}

func (d *Descriptor[T]) check(v T) error {
	if d.validate == nil {
		return nil
	}
	if err := d.validate(v); err != nil {
		return fmt.Errorf("property %s: %w", d.name, err)
	}
	return nil
}

func (d *Descriptor[T]) same(a, b T) bool {
	if d.equal != nil {
		return d.equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

package property

import (
	"errors"
	"fmt"
)

// ErrNotAnimatable is returned when binding an animation to a property whose
// descriptor does not allow it.
var ErrNotAnimatable = errors.New("property: not animatable")

// ChangeFunc is called with the properties that changed. Outside a batch it
// receives exactly one key per call.
type ChangeFunc func(changed []Key)

// Store holds one object's property values and animation bindings.
//
// Store is not safe for concurrent use; scene nodes mutate it on the
// application thread.
type Store struct {
	values   map[Key]any
	anims    map[Key]any
	onChange []ChangeFunc

	batchDepth int
	pending    []Key
}

// NewStore creates an empty store where every property is Unset.
func NewStore() *Store {
	return &Store{
		values: make(map[Key]any),
		anims:  make(map[Key]any),
	}
}

// OnChanged registers fn to be called after every change.
func (s *Store) OnChanged(fn ChangeFunc) {
	s.onChange = append(s.onChange, fn)
}

// Get returns the local value of d, or its default when Unset.
func Get[T any](s *Store, d *Descriptor[T]) T {
	if v, ok := s.values[d]; ok {
		return v.(T)
	}
	return d.def
}

// SetValue assigns a local value. Assigning a value equal to the current
// one is not a change and notifies nobody.
func SetValue[T any](s *Store, d *Descriptor[T], v T) error {
	if err := d.check(v); err != nil {
		return err
	}
	old, had := s.values[d]
	if had && d.same(old.(T), v) {
		return nil
	}
	if !had && d.same(d.def, v) {
		// Setting the default still moves the property to Set, but the
		// resolved value is unchanged.
		s.values[d] = v
		return nil
	}
	s.values[d] = v
	s.changed(d)
	return nil
}

// Clear returns d to Unset. The resolved value becomes the default.
func Clear[T any](s *Store, d *Descriptor[T]) {
	old, had := s.values[d]
	if !had {
		return
	}
	delete(s.values, d)
	if !d.same(old.(T), d.def) {
		s.changed(d)
	}
}

// Animate binds anim to k. While bound, State(k) is Animated.
func (s *Store) Animate(k Key, anim any) error {
	if !k.Animatable() {
		return fmt.Errorf("%w: %s", ErrNotAnimatable, k.Name())
	}
	if anim == nil {
		s.StopAnimation(k)
		return nil
	}
	if cur, ok := s.anims[k]; ok && cur == anim {
		return nil
	}
	s.anims[k] = anim
	s.changed(k)
	return nil
}

// StopAnimation removes any animation bound to k.
func (s *Store) StopAnimation(k Key) {
	if _, ok := s.anims[k]; !ok {
		return
	}
	delete(s.anims, k)
	s.changed(k)
}

// Animation returns the animation bound to k, or nil.
func (s *Store) Animation(k Key) any {
	return s.anims[k]
}

// Animations returns every bound animation. The order is unspecified.
func (s *Store) Animations() []any {
	out := make([]any, 0, len(s.anims))
	for _, a := range s.anims {
		out = append(out, a)
	}
	return out
}

// State returns the state of k.
func (s *Store) State(k Key) State {
	if _, ok := s.anims[k]; ok {
		return Animated
	}
	if _, ok := s.values[k]; ok {
		return Set
	}
	return Unset
}

// Batch runs fn and delivers all changes made inside it as one notification.
// Batches nest; the notification fires when the outermost batch ends.
func (s *Store) Batch(fn func() error) error {
	s.batchDepth++
	err := func() error {
		defer func() { s.batchDepth-- }()
		return fn()
	}()
	if s.batchDepth == 0 && len(s.pending) > 0 {
		changed := s.pending
		s.pending = nil
		s.notify(changed)
	}
	return err
}

func (s *Store) changed(k Key) {
	if s.batchDepth > 0 {
		for _, p := range s.pending {
			if p == k {
				return
			}
		}
		s.pending = append(s.pending, k)
		return
	}
	s.notify([]Key{k})
}

func (s *Store) notify(changed []Key) {
	for _, fn := range s.onChange {
		fn(changed)
	}
}

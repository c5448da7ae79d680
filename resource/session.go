// Package resource implements reference counting of logical scene resources
// across any number of compositor channels.
//
// All reference-table work happens under one composition lock. Instead of
// documenting "must already hold the lock", every operation takes a
// *Session, and a Session only exists while the lock is held:
//
//	resource.WithSession(lock, func(s *resource.Session) {
//	    h, err := light.AddRefOnChannel(s, ch)
//	    ...
//	})
package resource

import "sync"

// Lock is the composition lock. One Lock serializes every reference table,
// handle lookup and channel send that share it.
type Lock struct {
	mu sync.Mutex
}

// NewLock creates an unlocked composition lock.
func NewLock() *Lock {
	return &Lock{}
}

// Acquire blocks until the lock is free and returns a Session that holds it.
// The caller must call Release exactly once.
func (l *Lock) Acquire() *Session {
	l.mu.Lock()
	return &Session{lock: l}
}

// Session is proof that the composition lock is held. It is passed to every
// operation that touches reference tables or channels.
//
// A Session must not be retained after Release. Using a released Session
// panics.
type Session struct {
	lock     *Lock
	released bool
}

// Release unlocks the composition lock. Releasing twice panics.
func (s *Session) Release() {
	s.Check()
	s.released = true
	s.lock.mu.Unlock()
}

// Check panics if s is nil or already released. Operations that require the
// composition lock call it on entry.
func (s *Session) Check() {
	if s == nil {
		panic("resource: nil session")
	}
	if s.released {
		panic("resource: session used after Release")
	}
}

// WithSession runs fn while holding l and releases the lock when fn returns
// or panics.
func WithSession(l *Lock, fn func(s *Session)) {
	s := l.Acquire()
	defer s.Release()
	fn(s)
}

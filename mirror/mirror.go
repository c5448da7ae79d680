// Package mirror implements the receiving side of a channel: a cache of
// remote resources rebuilt from the record stream.
//
// The cache enforces the ordering rules senders rely on. A record may only
// target or reference handles that are live, so an owner's update must come
// after the sub-resources it points at are created, and a sub-resource may
// only be released once no live record points at it.
package mirror

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/packet"
)

// Errors returned by Apply.
var (
	// ErrUnknownHandle is returned for a record targeting a handle that was
	// never created or is already released.
	ErrUnknownHandle = errors.New("mirror: unknown handle")

	// ErrDuplicateHandle is returned when a live handle is created again.
	ErrDuplicateHandle = errors.New("mirror: handle already live")

	// ErrTypeMismatch is returned for an update whose record type does not
	// match the type the handle was created with.
	ErrTypeMismatch = errors.New("mirror: record does not match resource type")

	// ErrDanglingReference is returned when a record points at a handle
	// that is not live.
	ErrDanglingReference = errors.New("mirror: reference to dead handle")

	// ErrStillReferenced is returned when a handle is released while a live
	// record still points at it.
	ErrStillReferenced = errors.New("mirror: release of referenced handle")

	// ErrVersionMismatch is returned for a Hello carrying another protocol
	// version.
	ErrVersionMismatch = errors.New("mirror: protocol version mismatch")
)

// Resource is one mirrored resource.
type Resource struct {
	Handle packet.Handle
	Type   packet.Type
	// State is the last update applied, or nil before the first one.
	State packet.Command
}

// Cache is the receiver's view of one channel.
//
// Cache is safe for concurrent use: a channel writes into it while a
// compositor reads.
type Cache struct {
	mu        sync.RWMutex
	resources map[packet.Handle]*Resource
	incoming  map[packet.Handle]int // live records pointing at each handle
	hello     bool
	applied   uint64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		resources: make(map[packet.Handle]*Resource),
		incoming:  make(map[packet.Handle]int),
	}
}

// Apply decodes frame and applies it.
func (c *Cache) Apply(frame []byte) error {
	cmd, err := packet.Decode(frame)
	if err != nil {
		return err
	}
	return c.ApplyCommand(cmd)
}

// ApplyCommand applies a decoded record.
func (c *Cache) ApplyCommand(cmd packet.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyLocked(cmd); err != nil {
		scenesync.Logger().Warn("mirror rejected record", "record", packet.Format(cmd), "error", err)
		return err
	}
	c.applied++
	return nil
}

func (c *Cache) applyLocked(cmd packet.Command) error {
	switch cmd := cmd.(type) {
	case packet.Hello:
		if cmd.Version != scenesync.ProtocolVersion {
			return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, cmd.Version, scenesync.ProtocolVersion)
		}
		c.hello = true
		return nil

	case packet.CreateResource:
		if _, ok := c.resources[cmd.Handle]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicateHandle, cmd.Handle)
		}
		c.resources[cmd.Handle] = &Resource{Handle: cmd.Handle, Type: cmd.Type}
		return nil

	case packet.ReleaseResource:
		r, ok := c.resources[cmd.Handle]
		if !ok {
			return fmt.Errorf("%w: release %v", ErrUnknownHandle, cmd.Handle)
		}
		if n := c.incoming[cmd.Handle]; n > 0 {
			return fmt.Errorf("%w: %v has %d", ErrStillReferenced, cmd.Handle, n)
		}
		c.track(r.State, -1)
		delete(c.resources, cmd.Handle)
		return nil
	}

	r, ok := c.resources[cmd.Target()]
	if !ok {
		return fmt.Errorf("%w: %s %v", ErrUnknownHandle, cmd.Tag(), cmd.Target())
	}
	if r.Type.UpdateTag() != cmd.Tag() {
		return fmt.Errorf("%w: %s for %v", ErrTypeMismatch, cmd.Tag(), r.Type)
	}
	for _, ref := range packet.References(cmd) {
		if _, ok := c.resources[ref]; !ok {
			return fmt.Errorf("%w: %s %v points at %v", ErrDanglingReference, cmd.Tag(), cmd.Target(), ref)
		}
	}
	c.track(r.State, -1)
	c.track(cmd, +1)
	r.State = cmd
	return nil
}

// track adds delta to the incoming count of every handle cmd points at.
func (c *Cache) track(cmd packet.Command, delta int) {
	if cmd == nil {
		return
	}
	for _, ref := range packet.References(cmd) {
		if n := c.incoming[ref] + delta; n > 0 {
			c.incoming[ref] = n
		} else {
			delete(c.incoming, ref)
		}
	}
}

// References returns the number of live records pointing at h.
func (c *Cache) References(h packet.Handle) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.incoming[h]
}

// Lookup returns a copy of the resource mirrored at h.
func (c *Cache) Lookup(h packet.Handle) (Resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resources[h]
	if !ok {
		return Resource{}, false
	}
	return *r, true
}

// Len returns the number of live resources.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resources)
}

// Applied returns the number of records applied so far.
func (c *Cache) Applied() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied
}

// Opened reports whether the channel's Hello has been applied.
func (c *Cache) Opened() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hello
}

// Resources returns the live resources ordered by handle.
func (c *Cache) Resources() []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Resource, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b Resource) int { return cmp.Compare(a.Handle, b.Handle) })
	return out
}

// Transport writes frames straight into a Cache. It lets a channel and its
// mirror run in one process.
type Transport struct {
	cache *Cache
}

// NewTransport returns a transport feeding c.
func NewTransport(c *Cache) *Transport {
	return &Transport{cache: c}
}

// WriteFrame applies frame to the cache. A rejected record is a write
// failure and disconnects the channel.
func (t *Transport) WriteFrame(frame []byte) error {
	return t.cache.Apply(frame)
}

// Close does nothing; the cache outlives the channel.
func (t *Transport) Close() error { return nil }

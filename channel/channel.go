// Package channel provides the ordered, single-writer command transport
// between scene objects and a remote compositor.
//
// A Channel owns a handle table and a Transport. Handles are allocated with
// CreateResource and returned with ReleaseResource; both send the matching
// control record so the receiver's mirror table tracks the sender's.
// Records sent on one channel are delivered in send order.
//
// A transport failure disconnects the channel permanently: the failing call
// returns an error wrapping ErrDisconnected, every handle is invalidated, and
// every later call fails fast with ErrDisconnected. Channels never retry.
package channel

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/packet"
)

// ID identifies a channel within the process.
type ID uint32

var nextID atomic.Uint32

// Transport carries encoded records to the receiver.
//
// WriteFrame is called with exactly one encoded record per call, in send
// order. The frame is only valid for the duration of the call.
type Transport interface {
	WriteFrame(frame []byte) error
	Close() error
}

// Stats holds channel traffic counters.
type Stats struct {
	Packets  uint64 // records written, including control records
	Bytes    uint64 // encoded bytes written
	Creates  uint64 // CreateResource records
	Releases uint64 // ReleaseResource records
	Live     int    // live handles
}

// Option configures a Channel.
type Option func(*options)

type options struct {
	maxHandles int
	name       string
}

// WithMaxHandles limits the number of live handles on the channel.
// The default of 0 means unlimited.
func WithMaxHandles(n int) Option {
	return func(o *options) { o.maxHandles = n }
}

// WithName sets a label used in logs and String.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Channel is an ordered command channel to one compositor.
//
// Channel is safe for concurrent use, though the protocol assumes a single
// writer holding the composition lock.
type Channel struct {
	id   ID
	name string

	mu      sync.Mutex
	t       Transport
	handles *HandleTable
	buf     []byte
	err     error // non-nil once disconnected
	stats   Stats
}

// New opens a channel on t and sends the hello record.
func New(t Transport, opts ...Option) (*Channel, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Channel{
		id:      ID(nextID.Add(1)),
		name:    o.name,
		t:       t,
		handles: NewHandleTable(o.maxHandles),
		buf:     make([]byte, 0, 256),
	}
	if c.name == "" {
		c.name = fmt.Sprintf("channel#%d", c.id)
	}

	c.mu.Lock()
	err := c.writeLocked(packet.Hello{Version: scenesync.ProtocolVersion})
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	scenesync.Logger().Info("channel opened", "channel", c.name, "protocol", scenesync.ProtocolVersion)
	return c, nil
}

// ID returns the process-unique channel id.
func (c *Channel) ID() ID { return c.id }

// String returns the channel's label.
func (c *Channel) String() string { return c.name }

// Send writes cmd to the channel. The target handle must be live on this
// channel; sending to any other handle is a programming error and panics.
func (c *Channel) Send(cmd packet.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return ErrDisconnected
	}
	if _, ok := c.handles.Lookup(cmd.Target()); !ok {
		panic(fmt.Sprintf("channel: %s sent to %v which is not live on %s", cmd.Tag(), cmd.Target(), c.name))
	}
	return c.writeLocked(cmd)
}

// CreateResource allocates a handle for a resource of type typ and sends the
// CreateResource record announcing it.
func (c *Channel) CreateResource(typ packet.Type) (packet.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return packet.NullHandle, ErrDisconnected
	}
	h, err := c.handles.Allocate(typ)
	if err != nil {
		return packet.NullHandle, fmt.Errorf("%s: create %v: %w", c.name, typ, err)
	}
	if err := c.writeLocked(packet.CreateResource{Handle: h, Type: typ}); err != nil {
		return packet.NullHandle, err
	}
	c.stats.Creates++
	scenesync.Logger().Debug("handle created", "channel", c.name, "handle", uint32(h), "type", typ.String())
	return h, nil
}

// ReleaseResource frees h and sends the zero-ref notification for it.
// On a disconnected channel it returns ErrDisconnected without touching the
// (already invalidated) table. Releasing a handle that is not live panics.
func (c *Channel) ReleaseResource(h packet.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return ErrDisconnected
	}
	if err := c.handles.Free(h); err != nil {
		panic(fmt.Sprintf("channel: release on %s: %v", c.name, err))
	}
	if err := c.writeLocked(packet.ReleaseResource{Handle: h}); err != nil {
		return err
	}
	c.stats.Releases++
	scenesync.Logger().Debug("handle released", "channel", c.name, "handle", uint32(h))
	return nil
}

// IsValid reports whether h is live on the channel.
func (c *Channel) IsValid(h packet.Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.handles.Lookup(h)
	return ok
}

// TypeOf returns the resource type of a live handle.
func (c *Channel) TypeOf(h packet.Handle) (packet.Type, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handles.Lookup(h)
}

// Disconnected reports whether the channel has failed or been closed.
func (c *Channel) Disconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err != nil
}

// Err returns the error that disconnected the channel, or nil.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Stats returns a snapshot of the channel's counters.
func (c *Channel) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Live = c.handles.Len()
	return s
}

// Close disconnects the channel and closes its transport.
// Closing an already disconnected channel is a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil
	}
	c.err = ErrDisconnected
	c.handles.Reset()
	scenesync.Logger().Info("channel closed", "channel", c.name, "packets", c.stats.Packets)
	if err := c.t.Close(); err != nil {
		return fmt.Errorf("%s: close transport: %w", c.name, err)
	}
	return nil
}

// writeLocked encodes cmd and writes it to the transport.
// A transport error disconnects the channel. c.mu must be held.
func (c *Channel) writeLocked(cmd packet.Command) error {
	c.buf = packet.Append(c.buf[:0], cmd)
	if err := c.t.WriteFrame(c.buf); err != nil {
		c.disconnectLocked(err)
		return fmt.Errorf("%s: %w: %w", c.name, ErrDisconnected, err)
	}
	c.stats.Packets++
	c.stats.Bytes += uint64(len(c.buf))

	if scenesync.DebugEnabled() {
		scenesync.Logger().Debug("packet sent", "channel", c.name, "packet", packet.Format(cmd))
	}
	return nil
}

func (c *Channel) disconnectLocked(cause error) {
	c.err = fmt.Errorf("%w: %w", ErrDisconnected, cause)
	live := c.handles.Len()
	c.handles.Reset()
	scenesync.Logger().Warn("channel disconnected", "channel", c.name, "err", cause, "invalidated", live)
	_ = c.t.Close()
}

// Package scenesync keeps application-side scene objects mirrored on one or
// more remote compositors.
//
// # Overview
//
// A scene object (a light, a transform, a polygon) lives on the application
// side and owns typed properties. A compositor, running on a render thread or
// in another process, holds a mirror of every object it has been handed. The
// two sides talk over an ordered, single-writer command channel. scenesync
// keeps the mirrors consistent:
//
//   - The first reference to an object on a channel creates a remote handle
//     and sends one full update packet.
//   - Further references on the same channel only bump a reference count.
//   - Any property change re-sends the object's full resolved state on every
//     channel that currently references it.
//   - The last release on a channel releases owned sub-resources on that
//     channel and frees the remote handle.
//
// # Quick Start
//
//	lock := resource.NewLock()
//	ch, err := channel.New(channel.NewMemoryTransport())
//	...
//	light := scene.NewDirectionalLight()
//
//	resource.WithSession(lock, func(s *resource.Session) {
//	    h, err := light.AddRefOnChannel(s, ch)
//	    ...
//	    light.SetDirection(s, f32.Vec3{0, -1, 0}) // re-sent on ch
//	})
//
// # Architecture
//
// The module is organized into:
//   - packet: handles, type tags, fixed-layout command records
//   - channel: ordered transport, per-channel handle table, transports
//   - journal: SQLite-backed transport that records every frame
//   - resource: composition lock, sessions, multi-channel reference tables
//   - property: typed property descriptors, values and animation bindings
//   - scene: lights, transforms, animations, polygon geometry, model groups
//   - mirror: compositor-side cache that applies packets
//   - config: environment settings for the tools
//
// # Locking
//
// All reference-table and channel work happens under a single composition
// lock. The lock is represented by a [resource.Session] value that every
// channel-facing operation takes as its first argument.
package scenesync

// Version information
const (
	// Version is the current version of the module
	Version = "0.3.0"

	// ProtocolVersion is written into every channel's hello frame.
	// Bump it whenever a packet layout changes.
	ProtocolVersion = 2
)

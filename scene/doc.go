// Package scene provides the application-side scene nodes that are mirrored
// on compositor channels: lights, transforms, animations, polygon geometry
// and model groups.
//
// Every node keeps a reference table with one entry per channel that uses
// it. The first reference on a channel creates the remote mirror and sends
// the node's complete state; later references only bump the count. Owned
// sub-resources (a light's transform, bound animations, a group's children)
// follow their owner onto and off each channel.
//
// # Updates
//
// Setters take the *resource.Session that proves the composition lock is
// held. A change re-sends the node's full state once on every channel the
// node is on; there is no per-property diffing. Batch coalesces many
// changes into one update per channel:
//
//	resource.WithSession(lock, func(s *resource.Session) {
//	    _ = light.Batch(s, func() error {
//	        _ = light.SetColor(s, gputypes.ColorRed)
//	        return light.SetPosition(s, f32.Vec3{0, 2, 0})
//	    })
//	})
//
// A change to a node that is on no channel sends nothing.
//
// # Animations
//
// Animatable properties accept an animation resource. While bound, the
// update record carries the animation's handle and a zeroed static value;
// unbinding (passing nil) restores the static value.
package scene

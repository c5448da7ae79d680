package channel

import (
	"fmt"

	"github.com/gogpu/scenesync/packet"
)

// HandleTable allocates opaque resource handles for one channel and records
// the resource type behind each live handle.
//
// Handles start at 1; 0 is [packet.NullHandle]. Freed handles are reused
// most-recently-freed first, which keeps the receiver's mirror table dense.
//
// HandleTable is not safe for concurrent use. Channel serializes access.
type HandleTable struct {
	types []packet.Type // index h-1; TypeNone marks a free slot
	free  []packet.Handle
	live  int
	limit int
}

// NewHandleTable creates an empty table. A limit of 0 means unlimited.
func NewHandleTable(limit int) *HandleTable {
	return &HandleTable{
		types: make([]packet.Type, 0, 64),
		limit: limit,
	}
}

// Allocate returns a fresh handle for a resource of type typ.
func (t *HandleTable) Allocate(typ packet.Type) (packet.Handle, error) {
	if typ == packet.TypeNone {
		panic("channel: Allocate called with TypeNone")
	}
	if t.limit > 0 && t.live >= t.limit {
		return packet.NullHandle, fmt.Errorf("%w: limit %d", ErrHandleTableFull, t.limit)
	}

	var h packet.Handle
	if n := len(t.free); n > 0 {
		h = t.free[n-1]
		t.free = t.free[:n-1]
		t.types[h-1] = typ
	} else {
		t.types = append(t.types, typ)
		// #nosec G115 -- table size is bounded by limit or available memory, well under uint32 max
		h = packet.Handle(len(t.types))
	}
	t.live++
	return h, nil
}

// Free releases h for reuse.
func (t *HandleTable) Free(h packet.Handle) error {
	if _, ok := t.Lookup(h); !ok {
		return fmt.Errorf("%w: %v", ErrInvalidHandle, h)
	}
	t.types[h-1] = packet.TypeNone
	t.free = append(t.free, h)
	t.live--
	return nil
}

// Lookup returns the resource type behind h.
func (t *HandleTable) Lookup(h packet.Handle) (packet.Type, bool) {
	if h.IsNull() || int(h) > len(t.types) {
		return packet.TypeNone, false
	}
	typ := t.types[h-1]
	return typ, typ != packet.TypeNone
}

// Len returns the number of live handles.
func (t *HandleTable) Len() int {
	return t.live
}

// Reset frees every handle at once.
func (t *HandleTable) Reset() {
	t.types = t.types[:0]
	t.free = t.free[:0]
	t.live = 0
}

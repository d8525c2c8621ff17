package sim

import "ridgeworld/server/internal/object"

// IDAllocator hands out monotonically increasing object ids; 0
// (object.NoID) is reserved and never issued. Owned exclusively by the
// tick loop thread.
type IDAllocator struct {
	next object.ID
}

// NewIDAllocator constructs an allocator starting at 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: object.NoID}
}

// Next returns the next unused id.
func (a *IDAllocator) Next() object.ID {
	a.next++
	return a.next
}

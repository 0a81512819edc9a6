package graft

import "fmt"

// pendingPatch records a pointer slot that was written before its
// target had been emitted: once the target is emitted (and recorded in
// visited), the slot is overwritten with the resolved self-relative
// delta.
type pendingPatch struct {
	target uintptr // absolute source address of the not-yet-emitted pointee
	slot   Offset  // buffer offset of the slot that needs the delta
}

// serializeContext is the serializer's append-only output buffer, the
// visited-address table, and the forward-reference patch queue
// (spec §4.3).
type serializeContext struct {
	sink       Sink
	visited    map[uintptr]Offset
	seenUnique map[uintptr]bool
	pending    []pendingPatch
}

func newSerializeContext(sink Sink) *serializeContext {
	return &serializeContext{
		sink:       sink,
		visited:    make(map[uintptr]Offset),
		seenUnique: make(map[uintptr]bool),
	}
}

// write aligns and appends p, returning the offset of its first byte.
func (c *serializeContext) write(p []byte, align uintptr) (Offset, error) {
	off, err := c.sink.Append(p, align)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSink, err)
	}
	return off, nil
}

// overwrite patches an already-reserved slot.
func (c *serializeContext) overwrite(at Offset, p []byte) error {
	if err := c.sink.Patch(at, p); err != nil {
		return fmt.Errorf("%w: %v", ErrSink, err)
	}
	return nil
}

// translate looks up the offset already assigned to srcAddr. If absent,
// the caller must enqueue a pending patch and leave a zero placeholder.
func (c *serializeContext) translate(srcAddr uintptr) (Offset, bool) {
	off, ok := c.visited[srcAddr]
	return off, ok
}

// drainPending resolves every queued forward reference. Called once,
// after the root traversal completes.
func (c *serializeContext) drainPending() error {
	for _, p := range c.pending {
		target, ok := c.visited[p.target]
		if !ok {
			return fmt.Errorf("graft: forward reference to address never emitted")
		}
		delta := int64(target) - int64(p.slot)
		if err := c.overwrite(p.slot, encodeOffset(Offset(delta))); err != nil {
			return err
		}
	}
	return nil
}

// deserializeContext is the deserializer's bounds-check primitive
// (spec §4.5): base pointer and buffer extent.
type deserializeContext struct {
	base uintptr
	size uintptr
}

// check fails if [ptr, ptr+n) does not lie entirely within [base,
// base+size).
func (c *deserializeContext) check(ptr, n uintptr) error {
	if ptr < c.base || n > c.size || ptr-c.base > c.size-n {
		return newBoundsError(ErrOutOfBounds, Offset(int64(ptr)-int64(c.base)), n)
	}
	return nil
}

// checkAlign fails if ptr is not aligned to align bytes relative to the
// buffer's own base. "Aligned" for a relocatable image means aligned
// relative to the buffer start, not to absolute address zero; the base
// itself is not guaranteed to be align-bytes aligned for Align > 8.
func (c *deserializeContext) checkAlign(ptr, align uintptr) error {
	if align > 1 && (ptr-c.base)%align != 0 {
		return newBoundsError(ErrAlignment, Offset(int64(ptr)-int64(c.base)), align)
	}
	return nil
}

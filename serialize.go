package graft

import (
	"time"
	"unsafe"

	"github.com/arbor-systems/graft/layout"
	"github.com/arbor-systems/graft/signals"
)

// Serialize walks root's object graph and writes a zero-copy, relocatable
// image of it to sink. Every OPtr/Unique/String/Vec field is resolved to
// a self-relative delta from its own final address in the buffer.
func Serialize[T any](sink Sink, root *T, mode Mode) error {
	start := time.Now()
	plan, err := layout.BuildPlan[T]()
	if err != nil {
		return err
	}
	signals.EmitSerializeStart(plan.TypeName, int(mode))

	ctx := newSerializeContext(sink)

	var payloadStart Offset
	if mode.Has(WithVersion) {
		if _, err = ctx.write(encodeUint64(typeHash(plan)), 8); err != nil {
			signals.EmitSerializeComplete(plan.TypeName, 0, time.Since(start), 0, err)
			return err
		}
		payloadStart = 8
	}

	_, err = emit(ctx, plan, unsafe.Pointer(root))
	if err == nil {
		err = ctx.drainPending()
	}
	if err == nil && mode.Has(WithIntegrity) {
		err = writeIntegrity(ctx, sink, payloadStart)
	}

	// The reported byte count is the sink's length when the sink exposes
	// Bytes(), and 0 for any other sink.
	byteSize := 0
	if rs, ok := sink.(readableSink); ok {
		byteSize = len(rs.Bytes())
	}
	signals.EmitSerializeComplete(plan.TypeName, byteSize, time.Since(start), len(ctx.pending), err)
	return err
}

// emit writes one aggregate's raw bytes and patches its pointer-bearing
// fields, returning the buffer offset it landed at. Used for the root
// object and for every Unique/Vec-element pointee reached during the
// walk — plan may itself describe a container (a Unique pointee whose
// static type is, say, String or another Vec) rather than a struct, and
// patchFields below handles both shapes uniformly.
func emit(ctx *serializeContext, plan *layout.Plan, src unsafe.Pointer) (Offset, error) {
	raw := unsafe.Slice((*byte)(src), plan.Size)
	slot, err := ctx.write(raw, plan.Align)
	if err != nil {
		return 0, err
	}
	// Recorded before recursing into fields so a back-edge discovered
	// while patching src's own fields (a direct self-cycle) resolves
	// against this slot instead of re-emitting src.
	ctx.visited[uintptr(src)] = slot
	if plan.HasPointer {
		if err := patchFields(ctx, plan, src, slot); err != nil {
			return 0, err
		}
	}
	return slot, nil
}

// patchFields overwrites the raw-copied bytes of one already-reserved
// block at (src, slot) with resolved self-relative deltas, recursing
// into nested aggregate fields. src/slot describe whatever plan
// describes: a whole struct, one field within an emitted struct, or one
// element within an emitted vector block.
func patchFields(ctx *serializeContext, plan *layout.Plan, src unsafe.Pointer, slot Offset) error {
	switch plan.Special {
	case layout.KindOffsetPtr:
		return serializeOffsetPtr(ctx, src, slot)
	case layout.KindUnique:
		return serializeUnique(ctx, plan, src, slot)
	case layout.KindString:
		return serializeString(ctx, src, slot)
	case layout.KindVector:
		return serializeVector(ctx, plan, src, slot)
	}

	for _, f := range plan.Fields {
		fieldSrc := unsafe.Add(src, f.Offset)
		fieldSlot := slot + Offset(f.Offset)
		if err := patchFields(ctx, f.Plan, fieldSrc, fieldSlot); err != nil {
			return err
		}
	}
	return nil
}

// serializeOffsetPtr resolves one OPtr field: a self-relative delta to
// an already-visited address is translated directly; a delta to an
// address not yet emitted is queued as a pending patch and left zero.
func serializeOffsetPtr(ctx *serializeContext, src unsafe.Pointer, slot Offset) error {
	delta := *(*int64)(src)
	if delta == 0 {
		return ctx.overwrite(slot, encodeOffset(0))
	}
	target := uintptr(src) + uintptr(delta) //nolint:govet // self-relative pointer arithmetic by design

	if off, ok := ctx.translate(target); ok {
		return ctx.overwrite(slot, encodeOffset(off-slot))
	}
	ctx.pending = append(ctx.pending, pendingPatch{target: target, slot: slot})
	return ctx.overwrite(slot, encodeOffset(0))
}

// serializeUnique resolves one Unique field: unlike OPtr it forces
// emission of its pointee (if not already emitted through a prior alias
// of the same address — graph-shape rules still require that every
// Unique pointee be owned by exactly one handle).
func serializeUnique(ctx *serializeContext, plan *layout.Plan, src unsafe.Pointer, slot Offset) error {
	delta := *(*int64)(src)
	if delta == 0 {
		return ctx.overwrite(slot, encodeOffset(0))
	}
	target := uintptr(src) + uintptr(delta) //nolint:govet

	if ctx.seenUnique[target] {
		return newShapeError(plan.Elem.TypeName)
	}
	ctx.seenUnique[target] = true

	off, ok := ctx.translate(target)
	if !ok {
		var err error
		off, err = emit(ctx, plan.Elem, unsafe.Pointer(target)) //nolint:govet
		if err != nil {
			return err
		}
	}
	return ctx.overwrite(slot, encodeOffset(off-slot))
}

// serializeString resolves one String header: {delta, size}. Its
// payload bytes are emitted with alignment 1 — a byte string has no
// alignment requirement of its own.
func serializeString(ctx *serializeContext, src unsafe.Pointer, slot Offset) error {
	delta := *(*int64)(src)
	size := *(*uint64)(unsafe.Add(src, 8))
	if size == 0 {
		return ctx.overwrite(slot, encodeOffset(0))
	}
	dataAddr := uintptr(src) + uintptr(delta) //nolint:govet
	data := unsafe.Slice((*byte)(unsafe.Pointer(dataAddr)), size)

	dataOff, err := ctx.write(data, 1)
	if err != nil {
		return err
	}
	return ctx.overwrite(slot, encodeOffset(dataOff-slot))
}

// serializeVector resolves one Vec header: {delta, size, cap,
// selfAllocated}. The backing block is emitted as one contiguous,
// aligned run, then every element that itself carries pointer-shaped
// data is patched in place.
func serializeVector(ctx *serializeContext, plan *layout.Plan, src unsafe.Pointer, slot Offset) error {
	delta := *(*int64)(src)
	size := *(*uint64)(unsafe.Add(src, 8))
	if size == 0 {
		// cap and the self-allocated flag were raw-copied from the source
		// header; clear them so an empty vector is {0, 0, 0, false} too.
		if err := ctx.overwrite(slot, encodeOffset(0)); err != nil {
			return err
		}
		if err := ctx.overwrite(slot+16, encodeUint64(0)); err != nil {
			return err
		}
		return ctx.overwrite(slot+24, []byte{0})
	}

	elemPlan := plan.Elem
	dataAddr := uintptr(src) + uintptr(delta) //nolint:govet
	blockSize := elemPlan.Size * uintptr(size)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(dataAddr)), blockSize)

	blockOff, err := ctx.write(raw, elemPlan.Align)
	if err != nil {
		return err
	}

	// Every element's address is recorded regardless of its shape: a
	// plain OPtr may legitimately target a sibling element directly, not
	// only the pointee of a Unique handle.
	needsPatch := elemPlan.Special != layout.KindNone || elemPlan.HasPointer
	for i := uint64(0); i < size; i++ {
		elemSrc := unsafe.Add(unsafe.Pointer(dataAddr), uintptr(i)*elemPlan.Size)
		elemSlot := blockOff + Offset(uintptr(i)*elemPlan.Size)
		ctx.visited[uintptr(elemSrc)] = elemSlot
		if needsPatch {
			if err := patchFields(ctx, elemPlan, elemSrc, elemSlot); err != nil {
				return err
			}
		}
	}

	if err := ctx.overwrite(slot, encodeOffset(blockOff-slot)); err != nil {
		return err
	}
	// The header was raw-copied from the source Vec, which carries
	// whatever spare capacity and self_allocated_flag = true the source
	// slice had. In the buffer there is no spare capacity beyond the
	// emitted block and no independent allocation to grow into (spec §3,
	// §5), so cap is rewritten down to size and the flag cleared.
	if err := ctx.overwrite(slot+16, encodeUint64(size)); err != nil {
		return err
	}
	return ctx.overwrite(slot+24, []byte{0})
}

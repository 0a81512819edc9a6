package graft

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/arbor-systems/graft/layout"
	"github.com/arbor-systems/graft/signals"
)

// Deserialize returns a pointer directly into buf: no copy, no
// allocation beyond the *T header itself. The returned pointer's
// lifetime is tied to buf — the caller must keep buf alive (and, if it
// came from a memory-mapped file, mapped) for as long as the pointer is
// used.
//
// Unless mode has Unchecked, every pointer field reachable from root's
// own fields is bounds- and alignment-checked before the pointer is
// returned; with DeepCheck, the check recurses through the entire
// transitive graph instead of stopping at depth one.
func Deserialize[T any](buf []byte, mode Mode) (*T, error) {
	start := time.Now()
	plan, err := layout.BuildPlan[T]()
	if err != nil {
		return nil, err
	}
	signals.EmitDeserializeStart(plan.TypeName, int(mode))

	root, visited, err := deserializeRoot[T](buf, plan, mode)
	signals.EmitDeserializeComplete(plan.TypeName, len(buf), time.Since(start), visited, err)
	return root, err
}

func deserializeRoot[T any](buf []byte, plan *layout.Plan, mode Mode) (*T, int, error) {
	payload, err := readEnvelope(buf, plan, mode)
	if err != nil {
		return nil, 0, err
	}
	if uintptr(len(payload)) < plan.Size {
		return nil, 0, fmt.Errorf("%w: payload is %d bytes, root needs %d", ErrTooSmall, len(payload), plan.Size)
	}

	root := (*T)(unsafe.Pointer(&payload[0]))
	if !mode.checked() {
		return root, 0, nil
	}

	dctx := &deserializeContext{base: uintptr(unsafe.Pointer(&payload[0])), size: uintptr(len(payload))}
	visited := make(map[uintptr]bool)
	if err := validateAggregate(dctx, plan, unsafe.Pointer(root), visited, mode.Has(DeepCheck)); err != nil {
		return nil, len(visited), err
	}
	return root, len(visited), nil
}

// View is the result of DeserializeCast: a typed pointer into a buffer
// that was never walked or validated, exactly the live in-memory
// representation the caller built by hand — resolved lazily, field by
// field, by the same Resolve/Slice/Bytes methods Serialize's input
// graph uses.
type View[T any] struct {
	buf []byte
	ptr *T
}

// Get returns the root pointer. It aliases the buffer passed to
// DeserializeCast; the result must not outlive it.
func (v View[T]) Get() *T { return v.ptr }

// DeserializeCast is Deserialize's lighter-weight sibling: it performs
// no bounds-validation walk at all, regardless of mode's Unchecked/
// DeepCheck bits — only the envelope (type hash / content hash, per
// WithVersion/WithIntegrity) is checked. Use it when the buffer's
// origin is already trusted and the cost of even a shallow validating
// walk is unwelcome.
func DeserializeCast[T any](buf []byte, mode Mode) (View[T], error) {
	plan, err := layout.BuildPlan[T]()
	if err != nil {
		return View[T]{}, err
	}

	payload, err := readEnvelope(buf, plan, mode)
	if err != nil {
		return View[T]{}, err
	}
	if uintptr(len(payload)) < plan.Size {
		return View[T]{}, fmt.Errorf("%w: payload is %d bytes, root needs %d", ErrTooSmall, len(payload), plan.Size)
	}

	return View[T]{buf: buf, ptr: (*T)(unsafe.Pointer(&payload[0]))}, nil
}

// validateAggregate walks plan's pointer-bearing fields/elements at
// (src), checking each resolved target's bounds and alignment. visited
// is the pass-local set of already-validated target addresses that
// breaks cycles when deep is true (spec: "avoids infinite recursion by
// tracking already-visited slots in a set local to the pass").
func validateAggregate(dctx *deserializeContext, plan *layout.Plan, src unsafe.Pointer, visited map[uintptr]bool, deep bool) error {
	switch plan.Special {
	case layout.KindOffsetPtr:
		return validatePointer(dctx, plan.Elem, src, visited, deep)
	case layout.KindUnique:
		return validatePointer(dctx, plan.Elem, src, visited, deep)
	case layout.KindString:
		return validateString(dctx, src)
	case layout.KindVector:
		return validateVector(dctx, plan, src, visited, deep)
	}

	for _, f := range plan.Fields {
		fieldSrc := unsafe.Add(src, f.Offset)
		if err := validateAggregate(dctx, f.Plan, fieldSrc, visited, deep); err != nil {
			return err
		}
	}
	return nil
}

// validatePointer checks one OPtr/Unique slot's resolved target. Both
// kinds carry the same {delta Offset} layout and the same validation
// rule; they differ only in ownership, which does not matter here.
func validatePointer(dctx *deserializeContext, elemPlan *layout.Plan, src unsafe.Pointer, visited map[uintptr]bool, deep bool) error {
	delta := *(*int64)(src)
	if delta == 0 {
		return nil
	}
	target := uintptr(src) + uintptr(delta) //nolint:govet

	if err := dctx.check(target, elemPlan.Size); err != nil {
		return err
	}
	if err := dctx.checkAlign(target, elemPlan.Align); err != nil {
		return err
	}
	if !deep || visited[target] {
		return nil
	}
	visited[target] = true
	return validateAggregate(dctx, elemPlan, unsafe.Pointer(target), visited, deep) //nolint:govet
}

func validateString(dctx *deserializeContext, src unsafe.Pointer) error {
	delta := *(*int64)(src)
	size := *(*uint64)(unsafe.Add(src, 8))
	if size == 0 {
		return nil
	}
	target := uintptr(src) + uintptr(delta) //nolint:govet
	return dctx.check(target, uintptr(size))
}

func validateVector(dctx *deserializeContext, plan *layout.Plan, src unsafe.Pointer, visited map[uintptr]bool, deep bool) error {
	delta := *(*int64)(src)
	size := *(*uint64)(unsafe.Add(src, 8))
	if size == 0 {
		return nil
	}

	elemPlan := plan.Elem
	target := uintptr(src) + uintptr(delta) //nolint:govet
	blockSize := elemPlan.Size * uintptr(size)

	if err := dctx.check(target, blockSize); err != nil {
		return err
	}
	if err := dctx.checkAlign(target, elemPlan.Align); err != nil {
		return err
	}
	if !deep || (elemPlan.Special == layout.KindNone && !elemPlan.HasPointer) {
		return nil
	}

	for i := uint64(0); i < size; i++ {
		elemSrc := unsafe.Add(unsafe.Pointer(target), uintptr(i)*elemPlan.Size)
		if err := validateAggregate(dctx, elemPlan, elemSrc, visited, deep); err != nil {
			return err
		}
	}
	return nil
}

// Package graft is a zero-copy binary (de)serialization engine for
// in-memory object graphs on a single, trusted machine.
//
// The serialized byte stream is a faithful, contiguous, relocatable
// image of the in-memory representation: pointers are stored as
// self-relative offsets and are used in place. Deserialize does not
// rewrite them into absolute pointers; every access resolves an offset
// against its own field's address. The engine supports
// cyclic graphs, shared references, strings, dynamic arrays, unique
// ownership handles, and user-defined aggregates, and preserves
// alignment.
//
// # Declaring a serializable type
//
// A type is serializable if it is a plain aggregate (no user-declared
// constructors — Go has none — no virtual dispatch, no private fields
// with non-trivial semantics) whose pointer-shaped fields are one of
// OPtr[T], Unique[T], String, or Vec[T] rather than a raw Go pointer,
// slice, or map:
//
//	type Node struct {
//	    Value int64
//	    Next  OPtr[Node]
//	}
//
//	type Tree struct {
//	    Name     String
//	    Children Vec[Unique[Tree]]
//	}
//
// # Self-relative containers are live pointers too
//
// OPtr, Unique, String, and Vec resolve relative to their own storage
// address, so the same in-memory graph the caller builds by hand (using
// Set/SetBytes/SetSlice) is both a valid live object graph and the
// direct input to Serialize — there is no separate "builder" type.
//
// # Copying containers
//
// Go has no copy constructors. Assigning one of these types with plain
// `=` copies the stored delta, not the resolved target — which is wrong
// whenever the destination is not at the same address as the source.
// Always call Set/SetBytes/SetSlice on the field in its final location
// instead of copying a populated container by value.
//
//	var n Node
//	n.Next.Set(&other)   // correct: delta computed from &n.Next
//	n.Next = other.Next   // wrong: copies other's delta verbatim
package graft

import (
	"reflect"
	"unsafe"

	"github.com/arbor-systems/graft/layout"
)

// Offset is a signed, self-relative byte delta. Zero means null; any
// other value d means "the target is at &slot + d". Wide enough to
// address an entire buffer.
type Offset int64

// OPtr is a self-relative, non-owning pointer. Its target must be
// reachable independently (typically as the pointee of some Unique[T])
// so the serializer has somewhere to emit it from.
//
// An OPtr must never point to itself: a self-pointing delta of 0 is
// indistinguishable from null and is therefore reserved for null.
type OPtr[T any] struct {
	delta Offset
}

// GraftSpecial implements layout.Special.
func (OPtr[T]) GraftSpecial() layout.SpecialKind { return layout.KindOffsetPtr }

// GraftElem implements layout.ElemTyped. OPtr never recurses into its
// target for emission (it is a non-owning reference — see Unique for
// the owning counterpart), but a deserializer still needs T's size and
// alignment to validate a resolved target's bounds.
func (OPtr[T]) GraftElem() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// IsNull reports whether the pointer is null.
func (p OPtr[T]) IsNull() bool { return p.delta == 0 }

// Set points p at v, computing the self-relative delta from p's own
// address. Passing nil clears p to null.
func (p *OPtr[T]) Set(v *T) {
	if v == nil {
		p.delta = 0
		return
	}
	self := unsafe.Pointer(p)
	p.delta = Offset(uintptr(unsafe.Pointer(v)) - uintptr(self))
}

// Resolve returns the pointer's target, or nil if it is null.
func (p *OPtr[T]) Resolve() *T {
	if p.delta == 0 {
		return nil
	}
	self := uintptr(unsafe.Pointer(p))
	return (*T)(unsafe.Pointer(self + uintptr(p.delta))) //nolint:govet // self-relative pointer arithmetic by design
}

// Equal compares two offset pointers by resolved target, not by delta:
// two pointers may point to the same address with different deltas.
func (p *OPtr[T]) Equal(o *OPtr[T]) bool {
	return p.Resolve() == o.Resolve()
}

package graft

import (
	"reflect"
	"unsafe"

	"github.com/arbor-systems/graft/layout"
)

// String is a self-relative {offset, size} byte-string header. An empty
// string has size 0 and its offset is unspecified (null is permitted).
type String struct {
	delta Offset
	size  uint64
}

// GraftSpecial implements layout.Special.
func (String) GraftSpecial() layout.SpecialKind { return layout.KindString }

// Len returns the string length in bytes.
func (s *String) Len() int { return int(s.size) }

// Bytes returns the string payload as a byte slice aliasing the
// underlying storage. The result must not be retained past the
// lifetime of the storage String was pointed at.
func (s *String) Bytes() []byte {
	if s.size == 0 {
		return nil
	}
	self := uintptr(unsafe.Pointer(s))
	data := unsafe.Pointer(self + uintptr(s.delta)) //nolint:govet
	return unsafe.Slice((*byte)(data), s.size)
}

// String returns the payload as a Go string (copies the bytes).
func (s *String) String() string {
	return string(s.Bytes())
}

// SetBytes points s at payload b's backing array, computing s's
// self-relative delta from s's own address. The caller owns b and must
// keep it alive and unresized for as long as s is in use.
func (s *String) SetBytes(b []byte) {
	if len(b) == 0 {
		s.delta, s.size = 0, 0
		return
	}
	self := uintptr(unsafe.Pointer(s))
	data := unsafe.Pointer(unsafe.SliceData(b))
	s.delta = Offset(uintptr(data) - self)
	s.size = uint64(len(b))
}

// SetString is a convenience wrapper around SetBytes.
func (s *String) SetString(v string) {
	s.SetBytes([]byte(v))
}

// Vec is a self-relative dynamic array header: {offset, size, capacity,
// selfAllocated}. In a deserialized image selfAllocated is false and the
// element storage lives inside the serialized buffer; mutating such a
// vector is forbidden because it has no independent capacity to grow
// into.
type Vec[T any] struct {
	delta         Offset
	size          uint64
	cap           uint64
	selfAllocated bool
}

// GraftSpecial implements layout.Special.
func (Vec[T]) GraftSpecial() layout.SpecialKind { return layout.KindVector }

// GraftElem implements layout.ElemTyped.
func (Vec[T]) GraftElem() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return int(v.size) }

// Cap returns the backing capacity. For a vector whose storage lives
// inside a serialized buffer it equals Len: the buffer holds no spare
// capacity.
func (v *Vec[T]) Cap() int { return int(v.cap) }

// SelfAllocated reports whether the backing storage is an independent
// Go allocation the caller owns, as opposed to living inside a
// deserialized buffer.
func (v *Vec[T]) SelfAllocated() bool { return v.selfAllocated }

func (v *Vec[T]) data() unsafe.Pointer {
	if v.size == 0 {
		return nil
	}
	self := uintptr(unsafe.Pointer(v))
	return unsafe.Pointer(self + uintptr(v.delta)) //nolint:govet
}

// Slice returns the elements as a Go slice aliasing the underlying
// storage.
func (v *Vec[T]) Slice() []T {
	d := v.data()
	if d == nil {
		return nil
	}
	return unsafe.Slice((*T)(d), v.size)
}

// At returns a pointer to the i'th element.
func (v *Vec[T]) At(i int) *T {
	if i < 0 || uint64(i) >= v.size {
		panic("graft: vector index out of range")
	}
	return &v.Slice()[i]
}

// SetSlice points v at backing storage s, computing v's self-relative
// delta from v's own address and marking the vector self-allocated: s
// is an independent Go allocation the caller owns and may grow by
// calling SetSlice again with a new slice.
func (v *Vec[T]) SetSlice(s []T) {
	if len(s) == 0 {
		v.delta, v.size, v.cap, v.selfAllocated = 0, 0, 0, true
		return
	}
	self := uintptr(unsafe.Pointer(v))
	data := unsafe.Pointer(unsafe.SliceData(s))
	v.delta = Offset(uintptr(data) - self)
	v.size = uint64(len(s))
	v.cap = uint64(cap(s))
	v.selfAllocated = true
}

// Unique is a self-relative, owning pointer: the sole owner of its
// pointee. The type distinction from OPtr exists so the serializer
// knows to recurse into and emit the pointee rather than merely
// translate a reference to it.
type Unique[T any] struct {
	ptr OPtr[T]
}

// GraftSpecial implements layout.Special.
func (Unique[T]) GraftSpecial() layout.SpecialKind { return layout.KindUnique }

// GraftElem implements layout.ElemTyped.
func (Unique[T]) GraftElem() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// Set points u at v, computing the self-relative delta from u's own
// address. u becomes the sole owner of v for serialization purposes.
func (u *Unique[T]) Set(v *T) { u.ptr.Set(v) }

// Resolve returns the owned value, or nil if u is empty.
func (u *Unique[T]) Resolve() *T { return u.ptr.Resolve() }

// IsNull reports whether u owns nothing.
func (u Unique[T]) IsNull() bool { return u.ptr.IsNull() }

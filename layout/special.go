// Package layout builds structural walk plans for aggregate types.
//
// There is no runtime type metadata and no code generation: a Plan is
// derived once, by reflection, from a type's declared field shape, and
// cached for the lifetime of the process. This is the substitute for
// per-type hand-written (de)serialization code described by the core
// engine's reflection component.
package layout

import "reflect"

// SpecialKind identifies one of the engine's non-trivial container
// types. A struct field of one of these shapes is never treated as a
// generic nested aggregate — it gets its own recursion rule.
type SpecialKind int

const (
	// KindNone marks a field with no special shape.
	KindNone SpecialKind = iota
	// KindOffsetPtr marks a self-relative, non-owning pointer field.
	KindOffsetPtr
	// KindUnique marks a self-relative, owning pointer field.
	KindUnique
	// KindString marks a {offset,size} string header field.
	KindString
	// KindVector marks a {offset,size,cap,selfAllocated} vector header field.
	KindVector
)

// Special is implemented (with a value receiver) by the engine's
// container types so the reflector can recognize them without layout
// importing the package that declares them.
type Special interface {
	GraftSpecial() SpecialKind
}

// ElemTyped is implemented by container types whose element type a
// plan needs to know: Unique[T] and Vec[T] (to recurse into the
// pointee/elements during serialization) and OPtr[T] (to validate its
// target's bounds during deserialization, even though it never recurses
// into it for emission). String does not need it: its payload is always
// bytes, with no further structure.
type ElemTyped interface {
	GraftElem() reflect.Type
}

var (
	specialType  = reflect.TypeOf((*Special)(nil)).Elem()
	elemTypeType = reflect.TypeOf((*ElemTyped)(nil)).Elem()
)

// classify inspects a field's static type and returns its SpecialKind
// (KindNone if the field is not one of the container types) along with
// its element type when the container is element-typed.
func classify(t reflect.Type) (SpecialKind, reflect.Type) {
	if !t.Implements(specialType) {
		return KindNone, nil
	}
	zero := reflect.New(t).Elem().Interface()
	kind := zero.(Special).GraftSpecial()
	var elem reflect.Type
	if et, ok := zero.(ElemTyped); ok {
		elem = et.GraftElem()
	}
	return kind, elem
}

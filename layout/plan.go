package layout

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/sentinel"
)

// MaxFields bounds the number of top-level fields any planned aggregate
// (the root or a nested struct) may declare. A quality-of-implementation knob, not a protocol limit.
const MaxFields = 64

// FieldPlan describes how to recurse into one field of an aggregate
// during serialization or deserialization.
type FieldPlan struct {
	Name   string  // for diagnostics only
	Offset uintptr // byte offset from the start of the containing struct
	Plan   *Plan   // the field's own plan: Special tells the walker how to recurse
}

// Plan is the structural walk plan for one type: its overall size and
// alignment, whether it contains any pointer-bearing data at all, and —
// when it does — either the ordered list of fields to visit (a plain
// aggregate) or the SpecialKind and element Plan that describe one of
// the container types directly (an OPtr/Unique/String/Vec used as a
// struct field, or nested as a vector/unique element).
type Plan struct {
	Type       reflect.Type
	TypeName   string
	Size       uintptr
	Align      uintptr
	HasPointer bool        // false: the whole type may be copied as one raw block
	Special    SpecialKind // KindNone for a plain aggregate or scalar
	Elem       *Plan       // element plan, set when Special is KindOffsetPtr, KindUnique or KindVector
	Fields     []FieldPlan // pointer-bearing/special fields only, in declaration order: what Serialize/Deserialize walk
	AllFields  []FieldPlan // every exported field, in declaration order: what introspection (graft/snapshot) walks
	Signature  string      // field-type/order fingerprint, used for the structural type hash
}

// BuildPlan is the generic entry point for root aggregate types. It
// registers T with sentinel the same way cereal.NewProcessor[T] warms
// the sentinel cache on construction, then builds (or reuses) the Plan.
func BuildPlan[T any]() (*Plan, error) {
	sentinel.Scan[T]()
	return For(reflect.TypeFor[T]())
}

// For returns the cached Plan for t, building it on first use. Used
// directly for recursion into nested aggregates and container element
// types, where the Go type is only known at runtime.
func For(t reflect.Type) (*Plan, error) {
	return registryCache.getOrBuild(t)
}

// build constructs a Plan for t from scratch. t may be one of the
// container types, a plain aggregate struct, or a trivially-copyable
// leaf (scalar, array of scalars, and the like).
func build(t reflect.Type) (*Plan, error) {
	if kind, elem := classify(t); kind != KindNone {
		return buildSpecial(t, kind, elem)
	}

	switch t.Kind() {
	case reflect.Struct:
		return buildStruct(t)
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		return nil, fmt.Errorf("layout: %s: %w: use OPtr/Unique/String/Vec instead of a raw %s", t, ErrUnsupportedField, t.Kind())
	case reflect.Interface:
		return nil, fmt.Errorf("layout: %s: %w: interface fields carry no structural shape", t, ErrUnsupportedField)
	default:
		// Scalar, array-of-scalar, etc: trivially copyable in place.
		return &Plan{Type: t, TypeName: t.String(), Size: t.Size(), Align: uintptr(t.Align()), Signature: t.String()}, nil
	}
}

// buildSpecial builds the Plan for one of the container types itself —
// used both when a struct field's type is a container, and when a
// Vec/Unique element type is itself a container (Vec[OPtr[T]],
// Vec[Unique[T]], Vec[Vec[T]], Vec[String]).
func buildSpecial(t reflect.Type, kind SpecialKind, elem reflect.Type) (*Plan, error) {
	plan := &Plan{
		Type:       t,
		TypeName:   t.String(),
		Size:       t.Size(),
		Align:      uintptr(t.Align()),
		Special:    kind,
		HasPointer: true,
	}

	switch kind {
	case KindOffsetPtr, KindUnique, KindVector:
		if elem == nil {
			return nil, fmt.Errorf("layout: %s: %w: missing element type", t, ErrUnsupportedField)
		}
		elemPlan, err := For(elem)
		if err != nil {
			return nil, fmt.Errorf("layout: %s: %w", t, err)
		}
		plan.Elem = elemPlan
		plan.Signature = fmt.Sprintf("%s<%s>", specialName(kind), elemPlan.Signature)
	default:
		plan.Signature = specialName(kind)
	}

	return plan, nil
}

// buildStruct builds the Plan for a plain aggregate struct: every
// pointer-bearing or special field is recorded in declaration order;
// purely scalar fields are left for the raw byte copy to carry.
func buildStruct(t reflect.Type) (*Plan, error) {
	meta := scanType(t)
	if len(meta.Fields) > MaxFields {
		return nil, fmt.Errorf("layout: %s: %w (%d fields)", t, ErrTooManyFields, len(meta.Fields))
	}

	plan := &Plan{
		Type:     t,
		TypeName: t.Name(),
		Size:     t.Size(),
		Align:    uintptr(t.Align()),
	}

	sig := t.String() + "{"
	for _, fm := range meta.Fields {
		sf := t.FieldByIndex(fm.Index)

		sub, err := For(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("layout: %s.%s: %w", t, sf.Name, err)
		}
		sig += sf.Name + ":" + sub.Signature + ";"

		fp := FieldPlan{Name: sf.Name, Offset: sf.Offset, Plan: sub}
		plan.AllFields = append(plan.AllFields, fp)
		if sub.Special != KindNone || sub.HasPointer {
			plan.HasPointer = true
			plan.Fields = append(plan.Fields, fp)
		}
	}
	sig += "}"
	plan.Signature = sig

	return plan, nil
}

func specialName(kind SpecialKind) string {
	switch kind {
	case KindOffsetPtr:
		return "optr"
	case KindUnique:
		return "unique"
	case KindString:
		return "string"
	case KindVector:
		return "vec"
	default:
		return "none"
	}
}

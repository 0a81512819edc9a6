// Package snapshot flattens a live, already-resolved graft object graph
// into a portable tree of map[string]any/[]any/scalars for golden-file
// comparison, diffing, and logging. It never touches the wire format —
// that is what Serialize/Deserialize are for — and exists purely as
// debug/introspection tooling, the way cereal's Codec submodules exist
// to move values in and out of a particular wire encoding.
package snapshot

import (
	"reflect"

	"github.com/arbor-systems/graft/layout"
)

// Codec converts a flattened tree to and from one external encoding.
// Implementations live in their own submodules (graft/snapshot/json,
// .../yaml, .../msgpack, .../xml, .../bson) so a consumer who wants only
// JSON snapshots does not pull in the others' dependencies.
type Codec interface {
	ContentType() string
	Marshal(tree any) ([]byte, error)
	Unmarshal(data []byte, tree any) error
}

// Flatten walks root — the same live, in-process representation
// Serialize accepts as input or Deserialize hands back — and converts
// it to a tree built only of map[string]any, []any, and scalar values.
func Flatten[T any](root *T) (any, error) {
	plan, err := layout.BuildPlan[T]()
	if err != nil {
		return nil, err
	}
	return flattenValue(plan, reflect.ValueOf(root).Elem()), nil
}

func flattenValue(plan *layout.Plan, v reflect.Value) any {
	switch plan.Special {
	case layout.KindOffsetPtr, layout.KindUnique:
		return flattenPointer(plan, v)
	case layout.KindString:
		return flattenString(v)
	case layout.KindVector:
		return flattenVector(plan, v)
	}

	if v.Kind() != reflect.Struct {
		return v.Interface()
	}

	out := make(map[string]any, len(plan.AllFields))
	for _, f := range plan.AllFields {
		out[f.Name] = flattenValue(f.Plan, v.FieldByName(f.Name))
	}
	return out
}

func flattenPointer(plan *layout.Plan, v reflect.Value) any {
	resolved := v.Addr().MethodByName("Resolve").Call(nil)[0]
	if resolved.IsNil() {
		return nil
	}
	return flattenValue(plan.Elem, resolved.Elem())
}

func flattenString(v reflect.Value) any {
	return v.Addr().MethodByName("String").Call(nil)[0].String()
}

func flattenVector(plan *layout.Plan, v reflect.Value) any {
	slice := v.Addr().MethodByName("Slice").Call(nil)[0]
	n := slice.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = flattenValue(plan.Elem, slice.Index(i))
	}
	return out
}

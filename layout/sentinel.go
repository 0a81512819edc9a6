package layout

import (
	"reflect"

	"github.com/zoobzio/sentinel"
)

// scanType returns structural field metadata for t. If T was already
// registered with sentinel via BuildPlan[T], the cached scan is reused;
// otherwise the metadata is built directly from reflect, the same
// fallback cereal's processor uses for struct types sentinel has not
// seen as a generic root (scanNestedType in cereal's processor.go).
func scanType(t reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(t.String()); ok {
		return spec
	}

	meta := sentinel.Metadata{
		TypeName:    t.Name(),
		PackageName: t.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

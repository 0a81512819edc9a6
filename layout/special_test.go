package layout

import (
	"reflect"
	"testing"
)

// testOffsetPtr/testUnique/testVector/testStringHdr are local stand-ins
// for graft's OPtr/Unique/Vec/String container types: layout cannot
// import graft (graft imports layout), so classify() is exercised here
// against minimal types implementing the same marker interfaces.
type testOffsetPtr[T any] struct{ delta int64 }

func (testOffsetPtr[T]) GraftSpecial() SpecialKind { return KindOffsetPtr }
func (testOffsetPtr[T]) GraftElem() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

type testUnique[T any] struct{ ptr testOffsetPtr[T] }

func (testUnique[T]) GraftSpecial() SpecialKind { return KindUnique }
func (testUnique[T]) GraftElem() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

type testVector[T any] struct {
	delta int64
	size  uint64
}

func (testVector[T]) GraftSpecial() SpecialKind { return KindVector }
func (testVector[T]) GraftElem() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

type testStringHdr struct {
	delta int64
	size  uint64
}

func (testStringHdr) GraftSpecial() SpecialKind { return KindString }

type plainStruct struct {
	A int64
	B string
}

func TestClassify_RecognizesSpecialTypes(t *testing.T) {
	cases := []struct {
		name     string
		t        reflect.Type
		wantKind SpecialKind
		wantElem reflect.Type
	}{
		{"OffsetPtr", reflect.TypeOf(testOffsetPtr[int64]{}), KindOffsetPtr, reflect.TypeOf(int64(0))},
		{"Unique", reflect.TypeOf(testUnique[int64]{}), KindUnique, reflect.TypeOf(int64(0))},
		{"Vector", reflect.TypeOf(testVector[int64]{}), KindVector, reflect.TypeOf(int64(0))},
		{"String", reflect.TypeOf(testStringHdr{}), KindString, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kind, elem := classify(c.t)
			if kind != c.wantKind {
				t.Fatalf("classify(%s) kind = %v, want %v", c.name, kind, c.wantKind)
			}
			if elem != c.wantElem {
				t.Fatalf("classify(%s) elem = %v, want %v", c.name, elem, c.wantElem)
			}
		})
	}
}

func TestClassify_PlainStructIsNotSpecial(t *testing.T) {
	kind, elem := classify(reflect.TypeOf(plainStruct{}))
	if kind != KindNone {
		t.Fatalf("classify(plainStruct) kind = %v, want KindNone", kind)
	}
	if elem != nil {
		t.Fatalf("classify(plainStruct) elem = %v, want nil", elem)
	}
}

// Package testing provides round-trip assertion helpers and shared
// fixture types for graft's own test suites.
package testing

import (
	"bytes"
	"testing"

	"github.com/arbor-systems/graft"
)

// AssertRoundTrip serializes value, deserializes the result with mode,
// and fails t on either error. Returns the serialized buffer for
// further inspection (byte comparison, corruption, and so on).
func AssertRoundTrip[T any](t *testing.T, value *T, mode graft.Mode) []byte {
	t.Helper()
	sink := graft.NewBufferSink(0)
	if err := graft.Serialize(sink, value, mode); err != nil {
		t.Fatalf("graft: serialize: %v", err)
	}
	buf := sink.Bytes()
	if _, err := graft.Deserialize[T](buf, mode); err != nil {
		t.Fatalf("graft: deserialize: %v", err)
	}
	return buf
}

// AssertByteIdentical fails t unless serializing value twice produces
// byte-identical output — a check against nondeterminism (uninitialized
// padding, iteration-order dependence) in Serialize.
func AssertByteIdentical[T any](t *testing.T, value *T, mode graft.Mode) {
	t.Helper()
	a := graft.NewBufferSink(0)
	if err := graft.Serialize(a, value, mode); err != nil {
		t.Fatalf("graft: serialize (1): %v", err)
	}
	b := graft.NewBufferSink(0)
	if err := graft.Serialize(b, value, mode); err != nil {
		t.Fatalf("graft: serialize (2): %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("graft: two serializations of the same value produced different bytes")
	}
}

// AssertSharedTarget fails t unless a and b resolve to the same
// address — the check for a shared (non-owning) reference surviving a
// round trip.
func AssertSharedTarget[T any](t *testing.T, a, b *graft.OPtr[T]) {
	t.Helper()
	if !a.Equal(b) {
		t.Fatalf("graft: expected shared target, got %p and %p", a.Resolve(), b.Resolve())
	}
}

// AssertCycle fails t unless following next from start returns to start
// within maxHops — the check for a cyclic graph surviving a round trip.
func AssertCycle[T any](t *testing.T, start *T, next func(*T) *graft.OPtr[T], maxHops int) {
	t.Helper()
	cur := start
	for i := 0; i < maxHops; i++ {
		cur = next(cur).Resolve()
		if cur == start {
			return
		}
		if cur == nil {
			t.Fatalf("graft: cycle broken after %d hop(s)", i+1)
		}
	}
	t.Fatalf("graft: no cycle found within %d hops", maxHops)
}

// Node is a minimal fixture: one scalar plus one non-owning pointer,
// used to build rings and other cyclic graphs.
type Node struct {
	Value int64
	Next  graft.OPtr[Node]
}

// Tree is a fixture exercising Unique, Vec, and String together: a
// labeled node that owns a variable-width set of children.
type Tree struct {
	Name     graft.String
	Children graft.Vec[graft.Unique[Tree]]
}

// StringPair is a fixture with two non-owning references that may alias
// the same String, used for shared-string round-trip tests.
type StringPair struct {
	A graft.OPtr[graft.String]
	B graft.OPtr[graft.String]
}

// IntVecHolder is a fixture with a vector of plain scalars, the
// trivially-copyable case for Vec[T].
type IntVecHolder struct {
	Values graft.Vec[int64]
}

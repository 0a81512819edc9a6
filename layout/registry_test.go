package layout

import (
	"reflect"
	"testing"
	"time"
)

// selfRefNode owns a vector of Unique handles to itself — the
// self-referential aggregate shape the placeholder cycle-break in
// getOrBuild exists for.
type selfRefNode struct {
	Children testVector[testUnique[selfRefNode]]
}

func TestFor_SelfReferentialStruct_DoesNotDeadlockOrRecurseForever(t *testing.T) {
	Reset()
	done := make(chan *Plan, 1)
	go func() {
		p, err := For(reflect.TypeOf(selfRefNode{}))
		if err != nil {
			t.Errorf("For() error: %v", err)
			done <- nil
			return
		}
		done <- p
	}()

	select {
	case p := <-done:
		if p == nil {
			return
		}
		if !p.HasPointer {
			t.Fatalf("HasPointer = false, want true")
		}
		childPlan := p.Fields[0].Plan // Vec[Unique[selfRefNode]]
		if childPlan.Special != KindVector {
			t.Fatalf("Children field Special = %v, want KindVector", childPlan.Special)
		}
		uniquePlan := childPlan.Elem // Unique[selfRefNode]
		if uniquePlan.Special != KindUnique {
			t.Fatalf("vector element Special = %v, want KindUnique", uniquePlan.Special)
		}
		// The placeholder fill-in-place means the self-referential leg
		// resolves back to the very same *Plan this call returned.
		if uniquePlan.Elem != p {
			t.Fatalf("self-referential Elem plan is not the same pointer as the root plan")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("For() on a self-referential type did not return — likely deadlocked or recursed forever")
	}
}

func TestReset_ClearsCache(t *testing.T) {
	Reset()
	t1 := reflect.TypeOf(planFixture{})
	p1, err := For(t1)
	if err != nil {
		t.Fatalf("For() error: %v", err)
	}
	Reset()
	p2, err := For(t1)
	if err != nil {
		t.Fatalf("For() error: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("Reset() did not clear the cache: For() returned the same pointer")
	}
}

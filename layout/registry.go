package layout

import (
	"reflect"
	"sync"
)

// registry caches Plans by reflect.Type so repeated Serialize/Deserialize
// calls for the same root type (or the same nested/element type reached
// through many different roots) pay the reflection cost once.
type registry struct {
	mu    sync.RWMutex
	plans map[reflect.Type]*Plan
}

func newRegistry() *registry {
	return &registry{plans: make(map[reflect.Type]*Plan)}
}

var registryCache = newRegistry()

// getOrBuild returns the Plan for t, building it on first use.
//
// A self-referential aggregate (a Tree owning Vec[Unique[Tree]]
// children, for instance) recurses back into getOrBuild(Tree) while
// Tree's own Plan is still being built. To break that recursion, an
// empty placeholder is registered before build(t) runs and is filled
// in place once build(t) returns, so every holder of the placeholder
// pointer — including the in-progress recursive call — ends up looking
// at the completed Plan. The one casualty is the Signature string for
// the self-referential field, which is computed before the placeholder
// is filled and so reads as empty; this only softens the structural
// type hash for self-referential types; it does not affect traversal.
func (r *registry) getOrBuild(t reflect.Type) (*Plan, error) {
	r.mu.RLock()
	if p, ok := r.plans[t]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	if p, ok := r.plans[t]; ok {
		r.mu.Unlock()
		return p, nil
	}
	placeholder := &Plan{Type: t, TypeName: t.String()}
	r.plans[t] = placeholder
	r.mu.Unlock()

	p, err := build(t)
	if err != nil {
		r.mu.Lock()
		delete(r.plans, t)
		r.mu.Unlock()
		return nil, err
	}

	*placeholder = *p
	return placeholder, nil
}

// Reset clears the plan cache. Primarily useful for test isolation.
func Reset() {
	registryCache.mu.Lock()
	defer registryCache.mu.Unlock()
	registryCache.plans = make(map[reflect.Type]*Plan)
}

package layout

import "errors"

var (
	// ErrNotAggregate reports a non-struct type where an aggregate is
	// expected. BuildPlan and For do not return it: they plan a scalar
	// or array type as a trivially copyable leaf.
	ErrNotAggregate = errors.New("layout: not an aggregate type")

	// ErrTooManyFields is returned when a type declares more than
	// MaxFields top-level fields.
	ErrTooManyFields = errors.New("layout: too many fields")

	// ErrUnsupportedField is returned when a field's shape cannot be
	// structurally decomposed: raw pointers, maps, channels, funcs, and
	// interface-valued fields carry no recoverable structural shape.
	ErrUnsupportedField = errors.New("layout: unsupported field shape")
)

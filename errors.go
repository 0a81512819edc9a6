package graft

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling. Use errors.Is() to
// check for these.
var (
	// ErrVersionMismatch indicates the envelope's type hash does not
	// equal the expected root type's structural hash.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrIntegrityMismatch indicates the envelope's content hash does
	// not match the payload bytes.
	ErrIntegrityMismatch = errors.New("integrity mismatch")

	// ErrOutOfBounds indicates a resolved pointer or referenced region
	// lies outside the buffer. Not produced in Unchecked mode.
	ErrOutOfBounds = errors.New("pointer out of bounds")

	// ErrAlignment indicates a resolved pointer is not aligned for its
	// target type. Not produced in Unchecked mode.
	ErrAlignment = errors.New("alignment violation")

	// ErrSink indicates the caller-provided output sink failed.
	ErrSink = errors.New("sink failure")

	// ErrGraphShape indicates a Unique[T] pointee is reachable through
	// more than one Unique[T] handle.
	ErrGraphShape = errors.New("unique pointee reachable through multiple owners")

	// ErrTooSmall indicates a buffer is too small to hold a required
	// envelope field or the root object.
	ErrTooSmall = errors.New("buffer too small")
)

// BoundsError wraps ErrOutOfBounds/ErrAlignment with the offset and
// size that failed validation.
type BoundsError struct {
	Err    error
	Offset Offset
	Size   uintptr
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: offset %d size %d", e.Err, e.Offset, e.Size)
}

func (e *BoundsError) Unwrap() error { return e.Err }

// ShapeError wraps ErrGraphShape with the offending type name.
type ShapeError struct {
	Err      error
	TypeName string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.TypeName)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// EnvelopeError wraps ErrVersionMismatch/ErrIntegrityMismatch.
type EnvelopeError struct {
	Err      error
	Expected uint64
	Actual   uint64
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s: expected %#x, got %#x", e.Err, e.Expected, e.Actual)
}

func (e *EnvelopeError) Unwrap() error { return e.Err }

func newBoundsError(err error, offset Offset, size uintptr) error {
	return &BoundsError{Err: err, Offset: offset, Size: size}
}

func newShapeError(typeName string) error {
	return &ShapeError{Err: ErrGraphShape, TypeName: typeName}
}

func newEnvelopeError(err error, expected, actual uint64) error {
	return &EnvelopeError{Err: err, Expected: expected, Actual: actual}
}

package graft

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/arbor-systems/graft/layout"
)

// Buffer layout (spec §6):
//
//	[type-hash  (8 bytes, if WithVersion)]
//	[payload: root object followed by its transitively reachable objects]
//	[content-hash (8 bytes, if WithIntegrity), covering payload bytes]

// typeHash is the structural fingerprint used by WithVersion: a fast
// hash of the root type's field-type/order signature, not of any
// particular value. Two processes built from the same Go source produce
// the same hash for the same root type; a changed field order or type
// changes it.
func typeHash(plan *layout.Plan) uint64 {
	return xxhash.Sum64String(plan.Signature)
}

// contentHash is the integrity fingerprint used by WithIntegrity: an
// unkeyed BLAKE2b-256 over the payload bytes, truncated to 64 bits. It
// is a checksum against accidental corruption, not a forgery-resistant
// MAC — there is no key.
func contentHash(payload []byte) uint64 {
	sum := blake2b.Sum256(payload)
	return decodeUint64(sum[:8])
}

// readableSink is implemented by sinks that can hand back their
// accumulated bytes. WithIntegrity needs to hash the payload it just
// wrote, so it requires a sink that implements this.
type readableSink interface {
	Bytes() []byte
}

// writeIntegrity hashes the payload bytes written since payloadStart and
// appends the result as the buffer's trailing content-hash.
func writeIntegrity(ctx *serializeContext, sink Sink, payloadStart Offset) error {
	rs, ok := sink.(readableSink)
	if !ok {
		return fmt.Errorf("%w: WithIntegrity requires a sink that implements Bytes() []byte", ErrSink)
	}
	buf := rs.Bytes()
	if int(payloadStart) > len(buf) {
		return fmt.Errorf("%w: payload start %d beyond %d-byte sink", ErrSink, payloadStart, len(buf))
	}
	h := contentHash(buf[payloadStart:])
	// Alignment 1: the hash is never dereferenced as a pointer target, and
	// padding here would shift it past the range just hashed.
	_, err := ctx.write(encodeUint64(h), 1)
	return err
}

// readEnvelope validates the optional leading type-hash and trailing
// content-hash and returns the byte range of the payload within buf.
func readEnvelope(buf []byte, plan *layout.Plan, mode Mode) (payload []byte, err error) {
	start := 0
	end := len(buf)

	if mode.Has(WithVersion) {
		if len(buf) < 8 {
			return nil, fmt.Errorf("%w: buffer too small for type-hash", ErrTooSmall)
		}
		want := typeHash(plan)
		got := decodeUint64(buf[:8])
		if got != want {
			return nil, newEnvelopeError(ErrVersionMismatch, want, got)
		}
		start = 8
	}

	if mode.Has(WithIntegrity) {
		if end-start < 8 {
			return nil, fmt.Errorf("%w: buffer too small for content-hash", ErrTooSmall)
		}
		end -= 8
		want := decodeUint64(buf[end:])
		got := contentHash(buf[start:end])
		if got != want {
			return nil, newEnvelopeError(ErrIntegrityMismatch, want, got)
		}
	}

	return buf[start:end], nil
}

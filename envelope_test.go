package graft

import (
	"errors"
	"testing"

	"github.com/arbor-systems/graft/layout"
)

type envelopeFixture struct {
	Value int64
}

func TestTypeHash_StableForSameSignature(t *testing.T) {
	layout.Reset()
	p1, err := layout.BuildPlan[envelopeFixture]()
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}
	h1 := typeHash(p1)

	layout.Reset()
	p2, err := layout.BuildPlan[envelopeFixture]()
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}
	h2 := typeHash(p2)

	if h1 != h2 {
		t.Fatalf("typeHash() differs across rebuilds of the same type: %#x != %#x", h1, h2)
	}
}

func TestContentHash_DetectsPayloadChange(t *testing.T) {
	a := contentHash([]byte("payload one"))
	b := contentHash([]byte("payload two"))
	if a == b {
		t.Fatalf("contentHash() collided for two different payloads")
	}
	c := contentHash([]byte("payload one"))
	if a != c {
		t.Fatalf("contentHash() not deterministic for the same payload")
	}
}

func TestReadEnvelope_NoFlags_ReturnsWholeBuffer(t *testing.T) {
	layout.Reset()
	p, _ := layout.BuildPlan[envelopeFixture]()
	buf := []byte{1, 2, 3, 4}
	payload, err := readEnvelope(buf, p, 0)
	if err != nil {
		t.Fatalf("readEnvelope() error: %v", err)
	}
	if len(payload) != len(buf) {
		t.Fatalf("payload length = %d, want %d", len(payload), len(buf))
	}
}

func TestReadEnvelope_WithVersion_TooSmallBuffer(t *testing.T) {
	layout.Reset()
	p, _ := layout.BuildPlan[envelopeFixture]()
	_, err := readEnvelope([]byte{1, 2, 3}, p, WithVersion)
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("readEnvelope() error = %v, want ErrTooSmall", err)
	}
}

func TestReadEnvelope_WithIntegrity_RoundTrips(t *testing.T) {
	layout.Reset()
	p, _ := layout.BuildPlan[envelopeFixture]()

	sink := NewBufferSink(0)
	ctx := newSerializeContext(sink)
	payload := []byte{9, 9, 9, 9}
	if _, err := ctx.write(payload, 1); err != nil {
		t.Fatalf("write() error: %v", err)
	}
	if err := writeIntegrity(ctx, sink, 0); err != nil {
		t.Fatalf("writeIntegrity() error: %v", err)
	}

	got, err := readEnvelope(sink.Bytes(), p, WithIntegrity)
	if err != nil {
		t.Fatalf("readEnvelope() error: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("payload length = %d, want %d", len(got), len(payload))
	}
}

func TestReadEnvelope_WithIntegrity_CorruptedPayloadFails(t *testing.T) {
	layout.Reset()
	p, _ := layout.BuildPlan[envelopeFixture]()

	sink := NewBufferSink(0)
	ctx := newSerializeContext(sink)
	_, _ = ctx.write([]byte{9, 9, 9, 9}, 1)
	if err := writeIntegrity(ctx, sink, 0); err != nil {
		t.Fatalf("writeIntegrity() error: %v", err)
	}

	buf := sink.Bytes()
	buf[0] ^= 0xFF
	_, err := readEnvelope(buf, p, WithIntegrity)
	if !errors.Is(err, ErrIntegrityMismatch) {
		t.Fatalf("readEnvelope() error = %v, want ErrIntegrityMismatch", err)
	}
}

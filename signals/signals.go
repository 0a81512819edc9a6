// Package signals carries the structured observability events emitted
// by package graft, built on github.com/zoobzio/capitan.
package signals

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serialize/deserialize events.
var (
	SignalSerializeStart      = capitan.NewSignal("graft.serialize.start", "Serialize beginning")
	SignalSerializeComplete   = capitan.NewSignal("graft.serialize.complete", "Serialize finished")
	SignalDeserializeStart    = capitan.NewSignal("graft.deserialize.start", "Deserialize beginning")
	SignalDeserializeComplete = capitan.NewSignal("graft.deserialize.complete", "Deserialize finished")
)

// Keys for typed event data.
var (
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeyByteSize      = capitan.NewIntKey("byte_size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyPendingPatch  = capitan.NewIntKey("pending_patch_count")
	KeyVisitedSlots  = capitan.NewIntKey("visited_slot_count")
	KeyMode          = capitan.NewIntKey("mode")
)

// EmitSerializeStart emits an event when a Serialize call begins.
func EmitSerializeStart(typeName string, mode int) {
	capitan.Emit(context.Background(), SignalSerializeStart,
		KeyTypeName.Field(typeName),
		KeyMode.Field(mode),
	)
}

// EmitSerializeComplete emits an event when a Serialize call finishes.
func EmitSerializeComplete(typeName string, byteSize int, duration time.Duration, pendingPatches int, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyByteSize.Field(byteSize),
		KeyDuration.Field(duration),
		KeyPendingPatch.Field(pendingPatches),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalSerializeComplete, fields...)
}

// EmitDeserializeStart emits an event when a Deserialize call begins.
func EmitDeserializeStart(typeName string, mode int) {
	capitan.Emit(context.Background(), SignalDeserializeStart,
		KeyTypeName.Field(typeName),
		KeyMode.Field(mode),
	)
}

// EmitDeserializeComplete emits an event when a Deserialize call finishes.
func EmitDeserializeComplete(typeName string, byteSize int, duration time.Duration, visitedSlots int, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyByteSize.Field(byteSize),
		KeyDuration.Field(duration),
		KeyVisitedSlots.Field(visitedSlots),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDeserializeComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalDeserializeComplete, fields...)
}

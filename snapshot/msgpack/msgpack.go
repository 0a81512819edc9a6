// Package msgpack provides a MessagePack graft/snapshot codec.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/arbor-systems/graft/snapshot"
)

// msgpackCodec implements snapshot.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack snapshot codec.
func New() snapshot.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes tree as MessagePack.
func (c *msgpackCodec) Marshal(tree any) ([]byte, error) {
	return msgpack.Marshal(tree)
}

// Unmarshal decodes MessagePack data into tree.
func (c *msgpackCodec) Unmarshal(data []byte, tree any) error {
	return msgpack.Unmarshal(data, tree)
}

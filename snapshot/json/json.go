// Package json provides a JSON graft/snapshot codec.
package json

import (
	"encoding/json"

	"github.com/arbor-systems/graft/snapshot"
)

// jsonCodec implements snapshot.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON snapshot codec.
func New() snapshot.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes tree as JSON.
func (c *jsonCodec) Marshal(tree any) ([]byte, error) {
	return json.Marshal(tree)
}

// Unmarshal decodes JSON data into tree.
func (c *jsonCodec) Unmarshal(data []byte, tree any) error {
	return json.Unmarshal(data, tree)
}

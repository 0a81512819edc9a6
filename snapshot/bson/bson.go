// Package bson provides a BSON graft/snapshot codec.
package bson

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/arbor-systems/graft/snapshot"
)

// bsonCodec implements snapshot.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON snapshot codec.
func New() snapshot.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes tree as BSON.
func (c *bsonCodec) Marshal(tree any) ([]byte, error) {
	return bson.Marshal(tree)
}

// Unmarshal decodes BSON data into tree.
func (c *bsonCodec) Unmarshal(data []byte, tree any) error {
	return bson.Unmarshal(data, tree)
}

// Package xml provides an XML graft/snapshot codec.
package xml

import (
	"encoding/xml"

	"github.com/arbor-systems/graft/snapshot"
)

// xmlCodec implements snapshot.Codec for XML.
type xmlCodec struct{}

// New returns an XML snapshot codec.
func New() snapshot.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes tree as XML. encoding/xml returns an error for a map
// value, so a tree whose root is a map — such as snapshot.Flatten's
// output for a struct root — is not supported.
func (c *xmlCodec) Marshal(tree any) ([]byte, error) {
	return xml.Marshal(tree)
}

// Unmarshal decodes XML data into tree.
func (c *xmlCodec) Unmarshal(data []byte, tree any) error {
	return xml.Unmarshal(data, tree)
}

// Package yaml provides a YAML graft/snapshot codec.
package yaml

import (
	"github.com/arbor-systems/graft/snapshot"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements snapshot.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML snapshot codec.
func New() snapshot.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes tree as YAML.
func (c *yamlCodec) Marshal(tree any) ([]byte, error) {
	return yaml.Marshal(tree)
}

// Unmarshal decodes YAML data into tree.
func (c *yamlCodec) Unmarshal(data []byte, tree any) error {
	return yaml.Unmarshal(data, tree)
}

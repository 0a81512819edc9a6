package bson

import (
	"testing"
)

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Fatalf("ContentType() = %q, want application/bson", c.ContentType())
	}

	tree := map[string]any{
		"name":  "arbor",
		"value": int64(42),
	}

	data, err := c.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got map[string]any
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got["name"] != "arbor" {
		t.Fatalf("name = %v, want %q", got["name"], "arbor")
	}
}

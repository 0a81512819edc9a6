package fsio

import (
	"path/filepath"
	"testing"

	"github.com/arbor-systems/graft"
)

type fixture struct {
	Value int64
	Name  graft.String
}

func TestWriteFile_ReadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graft.bin")

	f := &fixture{Value: 42}
	f.Name.SetString("arbor")

	if err := WriteFile(path, f, 0); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	owned, err := ReadFile[fixture](path, 0)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if owned.Root.Value != 42 {
		t.Fatalf("Root.Value = %d, want 42", owned.Root.Value)
	}
	if got := owned.Root.Name.String(); got != "arbor" {
		t.Fatalf("Root.Name = %q, want %q", got, "arbor")
	}
}

func TestWriteFile_ReadFileMapped_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graft.bin")

	f := &fixture{Value: 7}
	f.Name.SetString("mapped")

	if err := WriteFile(path, f, 0); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	mapped, err := ReadFileMapped[fixture](path, 0)
	if err != nil {
		t.Fatalf("ReadFileMapped() error: %v", err)
	}
	defer mapped.Close()

	if mapped.Root.Value != 7 {
		t.Fatalf("Root.Value = %d, want 7", mapped.Root.Value)
	}
	if got := mapped.Root.Name.String(); got != "mapped" {
		t.Fatalf("Root.Name = %q, want %q", got, "mapped")
	}
}

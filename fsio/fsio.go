// Package fsio is graft's filesystem convenience layer: writing a root
// object to a file and reading it back, either by loading the whole
// file or by memory-mapping it and deserializing in place.
package fsio

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arbor-systems/graft"
)

// WriteFile serializes value to an in-memory buffer, then writes it to
// path through a memory-mapped region so the bytes on disk are flushed
// the same way ReadFileMapped will read them back.
func WriteFile[T any](path string, value *T, mode graft.Mode) error {
	sink := graft.NewBufferSink(0)
	if err := graft.Serialize(sink, value, mode); err != nil {
		return fmt.Errorf("fsio: serialize: %w", err)
	}
	buf := sink.Bytes()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("fsio: open %s: %w", path, err)
	}
	defer f.Close()

	if len(buf) == 0 {
		return nil
	}
	if err := f.Truncate(int64(len(buf))); err != nil {
		return fmt.Errorf("fsio: truncate %s: %w", path, err)
	}

	region, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("fsio: mmap %s: %w", path, err)
	}
	copy(region, buf)
	if err := region.Flush(); err != nil {
		_ = region.Unmap()
		return fmt.Errorf("fsio: flush %s: %w", path, err)
	}
	return region.Unmap()
}

// Owned pairs a deserialized root with the byte slice backing it so the
// caller does not need to reason about the buffer's lifetime separately
// from the returned pointer.
type Owned[T any] struct {
	Root *T
	buf  []byte
}

// ReadFile reads path whole, deserializes it, and returns the root
// together with the bytes it aliases.
func ReadFile[T any](path string, mode graft.Mode) (*Owned[T], error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fsio: read %s: %w", path, err)
	}
	root, err := graft.Deserialize[T](buf, mode)
	if err != nil {
		return nil, fmt.Errorf("fsio: deserialize %s: %w", path, err)
	}
	return &Owned[T]{Root: root, buf: buf}, nil
}

// Mapped pairs a deserialized root with the memory-mapped region
// backing it. Close unmaps the region; Root must not be used afterward.
type Mapped[T any] struct {
	Root   *T
	region mmap.MMap
	file   *os.File
}

// ReadFileMapped memory-maps path read-only and deserializes in place:
// the file's contents are never copied.
func ReadFileMapped[T any](path string, mode graft.Mode) (*Mapped[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fsio: open %s: %w", path, err)
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fsio: mmap %s: %w", path, err)
	}

	root, err := graft.Deserialize[T](region, mode)
	if err != nil {
		_ = region.Unmap()
		f.Close()
		return nil, fmt.Errorf("fsio: deserialize %s: %w", path, err)
	}

	return &Mapped[T]{Root: root, region: region, file: f}, nil
}

// Close unmaps the region and closes the backing file.
func (m *Mapped[T]) Close() error {
	err := m.region.Unmap()
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}

package graft

import "encoding/binary"

// All multi-byte integers in a graft buffer are little-endian (spec §6).

func encodeOffset(o Offset) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(o))
	return b
}

func decodeOffset(b []byte) Offset {
	return Offset(binary.LittleEndian.Uint64(b))
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func decodeUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

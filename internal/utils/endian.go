// Package utils provides low-level helpers shared by the buffer reader,
// the finalizer and the definalizer: little-endian primitive access and
// overflow-checked size arithmetic.
package utils

import "encoding/binary"

// The wire format is little-endian regardless of host (spec §6), so
// unlike a multi-endian file format reader these helpers do not take a
// byte order parameter.

// ReadU16 reads a little-endian uint16 at offset from b.
func ReadU16(b []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(b[offset : offset+2])
}

// ReadU32 reads a little-endian uint32 at offset from b.
func ReadU32(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset : offset+4])
}

// ReadU64 reads a little-endian uint64 at offset from b.
func ReadU64(b []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(b[offset : offset+8])
}

// PutU16 writes v as little-endian at offset into b.
func PutU16(b []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(b[offset:offset+2], v)
}

// PutU32 writes v as little-endian at offset into b.
func PutU32(b []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(b[offset:offset+4], v)
}

// PutU64 writes v as little-endian at offset into b.
func PutU64(b []byte, offset int, v uint64) {
	binary.LittleEndian.PutUint64(b[offset:offset+8], v)
}

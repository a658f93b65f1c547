// Package buf contains bounds and endian helpers shared by the on-disk formats.
package buf

import "encoding/binary"

// PutU64LE writes v into b[off:off+8] in little-endian order.
func PutU64LE(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64LE reads the little-endian uint64 at b[off:off+8].
func ReadU64LE(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

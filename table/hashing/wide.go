// Package hashing provides key hashers for slot tables.
//
// A Hasher maps a key to a Wide (128-bit) hash and decides key equality. The
// table only ever reduces the hash modulo its home range, so hashers with
// narrower output simply leave the high word zero.
package hashing

import (
	"fmt"
	"math/bits"
)

// Wide is a 128-bit unsigned integer, Hi:Lo.
type Wide struct {
	Hi, Lo uint64
}

// FromUint64 widens a 64-bit hash.
func FromUint64(v uint64) Wide { return Wide{Lo: v} }

// Mod returns w mod n. n must be non-zero.
func (w Wide) Mod(n uint64) uint64 {
	// Rem64 does not panic on quotient overflow, so Hi >= n is fine.
	return bits.Rem64(w.Hi, w.Lo, n)
}

func (w Wide) String() string {
	return fmt.Sprintf("%016x%016x", w.Hi, w.Lo)
}

package hashing

import (
	"encoding/binary"

	"github.com/dchest/siphash"

	"github.com/joshuapare/slotkit/table/codec"
)

// KeySize is the width of a SipHash key.
const KeySize = 16

// Sip hashes the encoded key with keyed SipHash-2-4, 128-bit output.
// The key must be persisted alongside the table: a table reopened with a
// different key cannot find its entries.
type Sip[K any] struct {
	encoded[K]
	k0, k1 uint64
}

// NewSip returns a Sip hasher using key and enc to encode keys.
func NewSip[K any](key [KeySize]byte, enc codec.Serializer[K]) *Sip[K] {
	return &Sip[K]{
		encoded: encoded[K]{enc: enc},
		k0:      binary.LittleEndian.Uint64(key[0:8]),
		k1:      binary.LittleEndian.Uint64(key[8:16]),
	}
}

func (s *Sip[K]) Hash(key K) Wide {
	b, _ := s.bytes(key)
	hi, lo := siphash.Hash128(s.k0, s.k1, b)
	return Wide{Hi: hi, Lo: lo}
}

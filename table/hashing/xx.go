package hashing

import (
	"github.com/cespare/xxhash/v2"

	"github.com/joshuapare/slotkit/table/codec"
)

// XX hashes the encoded key with unkeyed xxHash64. It is stable across
// processes without any persisted state, which suits file-backed tables
// reopened by tools.
type XX[K any] struct {
	encoded[K]
}

// NewXX returns an XX hasher using enc to encode keys.
func NewXX[K any](enc codec.Serializer[K]) *XX[K] {
	return &XX[K]{encoded: encoded[K]{enc: enc}}
}

func (x *XX[K]) Hash(key K) Wide {
	b, _ := x.bytes(key)
	return FromUint64(xxhash.Sum64(b))
}

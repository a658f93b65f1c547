package hashing

import (
	"bytes"

	"github.com/joshuapare/slotkit/table/codec"
)

// Hasher hashes keys and decides key equality. Equal keys must hash equally.
type Hasher[K any] interface {
	Hash(key K) Wide
	Equal(a, b K) bool
}

// Func adapts a pair of functions to Hasher.
type Func[K any] struct {
	HashFn  func(K) Wide
	EqualFn func(a, b K) bool
}

func (f Func[K]) Hash(key K) Wide { return f.HashFn(key) }
func (f Func[K]) Equal(a, b K) bool { return f.EqualFn(a, b) }

// Comparable returns a Hasher for comparable keys using == for equality.
func Comparable[K comparable](hash func(K) Wide) Func[K] {
	return Func[K]{
		HashFn:  hash,
		EqualFn: func(a, b K) bool { return a == b },
	}
}

// encoded hashes and compares keys by their fixed-width encoding, so any key
// type with a Serializer can be hashed without extra code.
type encoded[K any] struct {
	enc codec.Serializer[K]
}

func (e encoded[K]) bytes(key K) ([]byte, bool) {
	b, err := codec.Encode(e.enc, key)
	return b, err == nil
}

// Equal compares encodings. Keys that fail to encode are never equal to
// anything; the table reports the encode error when it tries to store them.
func (e encoded[K]) Equal(a, b K) bool {
	ab, ok := e.bytes(a)
	if !ok {
		return false
	}
	bb, ok := e.bytes(b)
	if !ok {
		return false
	}
	return bytes.Equal(ab, bb)
}

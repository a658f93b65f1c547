// Package codec provides fixed-width serializers for slot keys and values.
//
// Slot offsets are computed by multiplication, so every Serializer reports a
// fixed Size and always reads and writes exactly that many bytes. Integers are
// little-endian, matching the table header.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSize indicates a value that does not fit the serializer's fixed width.
	ErrSize = errors.New("codec: value does not fit fixed width")

	// ErrNUL indicates a string containing NUL, which is reserved for padding.
	ErrNUL = errors.New("codec: string contains NUL")
)

// Serializer encodes T to and from exactly Size() bytes.
type Serializer[T any] interface {
	Size() int
	Serialize(v T, w io.Writer) error
	Deserialize(r io.Reader) (T, error)
}

// Encode serializes v into a new Size()-byte slice.
func Encode[T any](s Serializer[T], v T) ([]byte, error) {
	w := fixedWriter{buf: make([]byte, 0, s.Size())}
	if err := s.Serialize(v, &w); err != nil {
		return nil, err
	}
	if len(w.buf) != s.Size() {
		return nil, fmt.Errorf("%w: wrote %d bytes, want %d", ErrSize, len(w.buf), s.Size())
	}
	return w.buf, nil
}

type fixedWriter struct{ buf []byte }

func (w *fixedWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func readN(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

type uint64Codec struct{}

// Uint64 encodes uint64 as 8 little-endian bytes.
func Uint64() Serializer[uint64] { return uint64Codec{} }

func (uint64Codec) Size() int { return 8 }

func (uint64Codec) Serialize(v uint64, w io.Writer) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func (uint64Codec) Deserialize(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

type int64Codec struct{}

// Int64 encodes int64 as 8 little-endian bytes (two's complement).
func Int64() Serializer[int64] { return int64Codec{} }

func (int64Codec) Size() int { return 8 }

func (int64Codec) Serialize(v int64, w io.Writer) error {
	return uint64Codec{}.Serialize(uint64(v), w)
}

func (int64Codec) Deserialize(r io.Reader) (int64, error) {
	v, err := uint64Codec{}.Deserialize(r)
	return int64(v), err
}

type uint32Codec struct{}

// Uint32 encodes uint32 as 4 little-endian bytes.
func Uint32() Serializer[uint32] { return uint32Codec{} }

func (uint32Codec) Size() int { return 4 }

func (uint32Codec) Serialize(v uint32, w io.Writer) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func (uint32Codec) Deserialize(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

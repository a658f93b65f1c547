package codec

import (
	"bytes"
	"fmt"
	"io"
)

// DigestSize is the width of a content address.
const DigestSize = 32

// Digest is a 32-byte content address, e.g. a SHA-256 of the stored object.
type Digest [DigestSize]byte

type digestCodec struct{}

// Digests encodes a Digest verbatim.
func Digests() Serializer[Digest] { return digestCodec{} }

func (digestCodec) Size() int { return DigestSize }

func (digestCodec) Serialize(v Digest, w io.Writer) error {
	_, err := w.Write(v[:])
	return err
}

func (digestCodec) Deserialize(r io.Reader) (Digest, error) {
	var d Digest
	_, err := io.ReadFull(r, d[:])
	return d, err
}

type bytesCodec struct{ n int }

// Bytes encodes byte slices of exactly n bytes. Other lengths are rejected
// rather than padded, so distinct keys never collide after encoding.
func Bytes(n int) Serializer[[]byte] { return bytesCodec{n: n} }

func (c bytesCodec) Size() int { return c.n }

func (c bytesCodec) Serialize(v []byte, w io.Writer) error {
	if len(v) != c.n {
		return fmt.Errorf("%w: %d bytes, want exactly %d", ErrSize, len(v), c.n)
	}
	_, err := w.Write(v)
	return err
}

func (c bytesCodec) Deserialize(r io.Reader) ([]byte, error) {
	return readN(r, c.n)
}

type stringCodec struct{ n int }

// String encodes UTF-8 strings of at most n bytes, NUL-padded to n. NUL is
// reserved for padding and rejected.
func String(n int) Serializer[string] { return stringCodec{n: n} }

func (c stringCodec) Size() int { return c.n }

func (c stringCodec) Serialize(v string, w io.Writer) error {
	if bytes.IndexByte([]byte(v), 0) >= 0 {
		return ErrNUL
	}
	return writePadded(w, []byte(v), c.n)
}

func (c stringCodec) Deserialize(r io.Reader) (string, error) {
	b, err := readN(r, c.n)
	if err != nil {
		return "", err
	}
	return string(trimPadding(b, 1)), nil
}

// writePadded writes b followed by NUL bytes up to n.
func writePadded(w io.Writer, b []byte, n int) error {
	if len(b) > n {
		return fmt.Errorf("%w: %d bytes, max %d", ErrSize, len(b), n)
	}
	out := make([]byte, n)
	copy(out, b)
	_, err := w.Write(out)
	return err
}

// trimPadding strips trailing all-zero units of the given width.
func trimPadding(b []byte, unit int) []byte {
	end := len(b)
	for end >= unit && bytes.Count(b[end-unit:end], []byte{0}) == unit {
		end -= unit
	}
	return b[:end]
}

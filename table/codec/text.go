package codec

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

type textCodec struct {
	name  string
	enc   encoding.Encoding
	width int // bytes per code unit
	n     int // total bytes
}

// Windows1252 encodes strings as Windows-1252 (legacy registry names),
// NUL-padded to n bytes. Runes outside the code page are rejected.
func Windows1252(n int) Serializer[string] {
	return textCodec{name: "windows-1252", enc: charmap.Windows1252, width: 1, n: n}
}

// UTF16 encodes strings as little-endian UTF-16 without BOM, padded with
// zero code units to units code units (2*units bytes).
func UTF16(units int) Serializer[string] {
	return textCodec{
		name:  "utf-16le",
		enc:   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		width: 2,
		n:     2 * units,
	}
}

func (c textCodec) Size() int { return c.n }

func (c textCodec) Serialize(v string, w io.Writer) error {
	if bytes.IndexByte([]byte(v), 0) >= 0 {
		return ErrNUL
	}
	b, err := c.enc.NewEncoder().Bytes([]byte(v))
	if err != nil {
		return fmt.Errorf("codec: encode %s: %w", c.name, err)
	}
	return writePadded(w, b, c.n)
}

func (c textCodec) Deserialize(r io.Reader) (string, error) {
	b, err := readN(r, c.n)
	if err != nil {
		return "", err
	}
	decoded, err := c.enc.NewDecoder().Bytes(trimPadding(b, c.width))
	if err != nil {
		return "", fmt.Errorf("codec: decode %s: %w", c.name, err)
	}
	return string(decoded), nil
}

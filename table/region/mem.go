package region

// Mem is a Region backed by a heap byte slice.
type Mem struct {
	data []byte
}

// NewMem returns a zeroed region of size bytes.
func NewMem(size int64) *Mem {
	return &Mem{data: make([]byte, size)}
}

// MemFrom wraps b without copying. Writes through the region are visible in b.
func MemFrom(b []byte) *Mem {
	if b == nil {
		b = []byte{}
	}
	return &Mem{data: b}
}

func (m *Mem) Size() int64 { return int64(len(m.data)) }

// Bytes exposes the backing slice. Tests use it to inspect or damage layouts.
func (m *Mem) Bytes() []byte { return m.data }

func (m *Mem) OpenReader(off int64) (Reader, error) {
	return newStream(m.data, off, nil)
}

func (m *Mem) OpenWriter(off int64) (Writer, error) {
	return newStream(m.data, off, nil)
}

// Release drops the backing slice. Later stream opens fail with ErrClosed.
func (m *Mem) Release() {
	m.data = nil
}

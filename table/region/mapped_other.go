//go:build !linux && !darwin && !freebsd

package region

import (
	"io"
	"os"
)

// mapFile loads the whole file when mmap is not available. Flush writes the
// dirty ranges back with WriteAt.
func mapFile(path string, f *os.File, size int64) (*Mapped, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return &Mapped{
		path:    path,
		f:       f,
		data:    data,
		tracker: NewTracker(4096),
	}, nil
}

func (m *Mapped) flushRange(r Range) error {
	_, err := m.f.WriteAt(m.data[r.Off:r.Off+r.Len], r.Off)
	return err
}

func (m *Mapped) unmap() error { return nil }

func (m *Mapped) sync() error { return m.f.Sync() }

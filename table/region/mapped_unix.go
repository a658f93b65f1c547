//go:build linux || darwin || freebsd

package region

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(path string, f *os.File, size int64) (*Mapped, error) {
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("region: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("region: mmap %s: %w", path, err)
	}
	return &Mapped{
		path:    path,
		f:       f,
		data:    data,
		tracker: NewTracker(int64(unix.Getpagesize())),
	}, nil
}

// flushRange msyncs one page-aligned range. The mapping base is page-aligned,
// so sub-slices starting at page offsets are valid msync addresses.
func (m *Mapped) flushRange(r Range) error {
	return unix.Msync(m.data[r.Off:r.Off+r.Len], unix.MS_SYNC)
}

func (m *Mapped) unmap() error {
	err := unix.Munmap(m.data)
	if err == unix.EINVAL {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

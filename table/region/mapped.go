package region

import (
	"context"
	"fmt"
	"os"
)

// Mapped is a Region backed by a file. On unix platforms the file is mapped
// read/write and shared, so writes land in the page cache immediately and
// Flush makes them durable.
type Mapped struct {
	path    string
	f       *os.File
	data    []byte
	tracker *Tracker
}

// Path returns the backing file path.
func (m *Mapped) Path() string { return m.path }

func (m *Mapped) Size() int64 { return int64(len(m.data)) }

func (m *Mapped) OpenReader(off int64) (Reader, error) {
	return newStream(m.data, off, nil)
}

func (m *Mapped) OpenWriter(off int64) (Writer, error) {
	return newStream(m.data, off, m.markDirty)
}

// Dirty returns the coalesced ranges waiting for Flush.
func (m *Mapped) Dirty() []Range {
	return m.tracker.Coalesced(int64(len(m.data)))
}

func (m *Mapped) markDirty(start, end int64) {
	m.tracker.Add(start, end-start)
}

// Flush writes dirty ranges back to the file and syncs the descriptor.
//
// The context can be used to cancel between ranges. If cancelled part way,
// some ranges may have been flushed while others have not; they stay tracked
// and the next Flush retries them.
func (m *Mapped) Flush(ctx context.Context) error {
	if m.data == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.tracker.Pending() == 0 {
		return nil
	}
	for _, r := range m.Dirty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.flushRange(r); err != nil {
			return fmt.Errorf("region: flush %s [%d,+%d): %w", m.path, r.Off, r.Len, err)
		}
	}
	if err := m.sync(); err != nil {
		return fmt.Errorf("region: sync %s: %w", m.path, err)
	}
	m.tracker.Reset()
	return nil
}

// Close releases the mapping and the file. Unflushed writes may still reach
// the file through the page cache, but are not guaranteed durable.
func (m *Mapped) Close() error {
	var err error
	if m.data != nil {
		err = m.unmap()
		m.data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return err
}

// Create makes a new zero-filled file of size bytes at path and maps it.
// It fails if the file already exists.
func Create(path string, size int64) (*Mapped, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region: create %s: size must be positive, got %d", path, size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("region: size %s: %w", path, err)
	}
	m, err := mapFile(path, f, size)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return m, nil
}

// Open maps an existing file read/write.
func Open(path string) (*Mapped, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("region: empty file: %s", path)
	}
	m, err := mapFile(path, f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return m, nil
}

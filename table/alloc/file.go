package alloc

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/slotkit/table/region"
)

// File allocates a single region at a fixed path. The reference is the
// path itself.
type File struct {
	path string
	m    *region.Mapped
}

// NewFile returns an allocator for path. Nothing is created until Allocate.
func NewFile(path string) *File {
	return &File{path: path}
}

// Allocate creates the file. It fails with ErrNoSpace if the file exists or
// a region was already allocated.
func (f *File) Allocate(size int64) (Ref, region.Region, error) {
	if size <= 0 {
		return "", nil, ErrBadSize
	}
	if f.m != nil {
		return "", nil, fmt.Errorf("%w: %s already allocated", ErrNoSpace, f.path)
	}
	m, err := region.Create(f.path, size)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNoSpace, err)
	}
	f.m = m
	return Ref(f.path), m, nil
}

// Open maps an existing file.
func (f *File) Open() (*region.Mapped, error) {
	if f.m != nil {
		return f.m, nil
	}
	m, err := region.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBadRef, f.path)
		}
		return nil, err
	}
	f.m = m
	return m, nil
}

// Deallocate unmaps the region and removes the file.
func (f *File) Deallocate(ref Ref) error {
	if f.m == nil || ref != Ref(f.path) {
		return fmt.Errorf("%w: %s", ErrBadRef, ref)
	}
	if err := f.m.Close(); err != nil {
		return fmt.Errorf("alloc: close %s: %w", ref, err)
	}
	f.m = nil
	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("alloc: remove %s: %w", ref, err)
	}
	return nil
}

// Flush makes the region durable. It is a no-op before Allocate or Open.
func (f *File) Flush(ctx context.Context) error {
	if f.m == nil {
		return nil
	}
	return f.m.Flush(ctx)
}

// Close unmaps the region and keeps the file.
func (f *File) Close() error {
	if f.m == nil {
		return nil
	}
	err := f.m.Close()
	f.m = nil
	return err
}

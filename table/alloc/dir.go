package alloc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/llxisdsh/pb"

	"github.com/joshuapare/slotkit/table/region"
)

// FileExt is the extension of region files created by Dir.
const FileExt = ".slot"

// Dir allocates each region as a mapped file under a root directory.
type Dir struct {
	root string
	live *pb.MapOf[Ref, *region.Mapped]
}

// NewDir returns a Dir rooted at root, creating the directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("alloc: create root %s: %w", root, err)
	}
	return &Dir{root: root, live: pb.NewMapOf[Ref, *region.Mapped]()}, nil
}

// Path returns the file backing ref.
func (d *Dir) Path(ref Ref) string {
	return filepath.Join(d.root, string(ref)+FileExt)
}

// RefFromPath returns the reference for a region file under this directory.
func (d *Dir) RefFromPath(path string) (Ref, error) {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(d.root) || !strings.HasSuffix(path, FileExt) {
		return "", fmt.Errorf("%w: %s is not a region file in %s", ErrBadRef, path, d.root)
	}
	return Ref(strings.TrimSuffix(filepath.Base(path), FileExt)), nil
}

func (d *Dir) Allocate(size int64) (Ref, region.Region, error) {
	if size <= 0 {
		return "", nil, ErrBadSize
	}
	ref := Ref(uuid.NewString())
	m, err := region.Create(d.Path(ref), size)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNoSpace, err)
	}
	d.live.Store(ref, m)
	return ref, m, nil
}

// Open maps a region file allocated earlier, e.g. by a previous process.
func (d *Dir) Open(ref Ref) (*region.Mapped, error) {
	if m, ok := d.live.Load(ref); ok {
		return m, nil
	}
	m, err := region.Open(d.Path(ref))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBadRef, ref)
		}
		return nil, err
	}
	d.live.Store(ref, m)
	return m, nil
}

// Deallocate unmaps the region and removes its file.
func (d *Dir) Deallocate(ref Ref) error {
	m, ok := d.live.LoadAndDelete(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBadRef, ref)
	}
	if err := m.Close(); err != nil {
		return fmt.Errorf("alloc: close %s: %w", ref, err)
	}
	if err := os.Remove(d.Path(ref)); err != nil {
		return fmt.Errorf("alloc: remove %s: %w", ref, err)
	}
	return nil
}

// Flush makes every live region durable.
func (d *Dir) Flush(ctx context.Context) error {
	var err error
	d.live.Range(func(ref Ref, m *region.Mapped) bool {
		if ferr := m.Flush(ctx); ferr != nil {
			err = fmt.Errorf("alloc: flush %s: %w", ref, ferr)
			return false
		}
		return true
	})
	return err
}

// Close unmaps every live region without removing files.
func (d *Dir) Close() error {
	var errs []error
	d.live.Range(func(ref Ref, m *region.Mapped) bool {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("alloc: close %s: %w", ref, err))
		}
		d.live.Delete(ref)
		return true
	})
	return errors.Join(errs...)
}

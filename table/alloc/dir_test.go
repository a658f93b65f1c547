package alloc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_AllocateWritesFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	root := filepath.Join(t.TempDir(), "tables")
	d, err := NewDir(root)
	require.NoError(t, err)
	defer d.Close()

	ref, r, err := d.Allocate(4096)
	require.NoError(t, err)
	require.Equal(t, int64(4096), r.Size())

	info, err := os.Stat(d.Path(ref))
	require.NoError(t, err)
	assert.Equal(t, int64(4096), info.Size())

	back, err := d.RefFromPath(d.Path(ref))
	require.NoError(t, err)
	assert.Equal(t, ref, back)
}

func TestDir_ReopenAfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	root := t.TempDir()
	d, err := NewDir(root)
	require.NoError(t, err)

	ref, r, err := d.Allocate(64)
	require.NoError(t, err)
	w, err := r.OpenWriter(10)
	require.NoError(t, err)
	_, err = w.Write([]byte("slot"))
	require.NoError(t, err)
	require.NoError(t, w.Finish())
	require.NoError(t, d.Flush(context.Background()))
	require.NoError(t, d.Close())

	d2, err := NewDir(root)
	require.NoError(t, err)
	defer d2.Close()

	m, err := d2.Open(ref)
	require.NoError(t, err)
	rd, err := m.OpenReader(10)
	require.NoError(t, err)
	got := make([]byte, 4)
	_, err = io.ReadFull(rd, got)
	require.NoError(t, err)
	assert.Equal(t, "slot", string(got))
}

func TestDir_DeallocateRemovesFile(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	ref, _, err := d.Allocate(16)
	require.NoError(t, err)
	path := d.Path(ref)

	require.NoError(t, d.Deallocate(ref))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
	require.ErrorIs(t, d.Deallocate(ref), ErrBadRef)
}

func TestDir_Errors(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	_, _, err = d.Allocate(-1)
	require.ErrorIs(t, err, ErrBadSize)

	_, err = d.Open("missing")
	require.ErrorIs(t, err, ErrBadRef)

	_, err = d.RefFromPath("/elsewhere/x.slot")
	require.ErrorIs(t, err, ErrBadRef)
}

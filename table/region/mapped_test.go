package region

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapped_CreateWriteFlushReopen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	path := filepath.Join(t.TempDir(), "region.bin")

	m, err := Create(path, 8192)
	require.NoError(t, err)
	require.Equal(t, int64(8192), m.Size())
	require.Equal(t, path, m.Path())

	w, err := m.OpenWriter(5000)
	require.NoError(t, err)
	_, err = w.Write([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	require.NoError(t, w.Finish())

	require.NotEmpty(t, m.Dirty())
	require.NoError(t, m.Flush(context.Background()))
	assert.Empty(t, m.Dirty())
	require.NoError(t, m.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, raw[5000:5004])

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	r, err := reopened.OpenReader(5000)
	require.NoError(t, err)
	got := make([]byte, 4)
	_, err = io.ReadFull(r, got)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got)
}

func TestMapped_CreateRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.bin")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0o644))

	_, err := Create(path, 4096)
	require.Error(t, err)
}

func TestMapped_OpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestMapped_FlushCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	m, err := Create(filepath.Join(t.TempDir(), "c.bin"), 4096)
	require.NoError(t, err)
	defer m.Close()

	w, err := m.OpenWriter(0)
	require.NoError(t, err)
	_, err = w.Write([]byte{1})
	require.NoError(t, err)
	require.NoError(t, w.Finish())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Flush(ctx), context.Canceled)
	assert.NotEmpty(t, m.Dirty(), "ranges stay tracked after a cancelled flush")
}

func TestMapped_UseAfterClose(t *testing.T) {
	m, err := Create(filepath.Join(t.TempDir(), "closed.bin"), 4096)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = m.OpenWriter(0)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, m.Flush(context.Background()), ErrClosed)
}

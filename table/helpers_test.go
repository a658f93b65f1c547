package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/internal/buf"
	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/hashing"
	"github.com/joshuapare/slotkit/table/region"
)

// u64Table is the table shape most tests use: uint64 keys and values.
type u64Table = Table[uint64, uint64]

// sameHome hashes every key to 0, so every key shares one home slot.
func sameHome() hashing.Hasher[uint64] {
	return hashing.Comparable(func(uint64) hashing.Wide { return hashing.FromUint64(0) })
}

// byHundreds sends key k to hash k/100, so keys can be placed on chosen
// homes: 0..99 -> hash 0, 100..199 -> hash 1, ...
func byHundreds() hashing.Hasher[uint64] {
	return hashing.Comparable(func(k uint64) hashing.Wide { return hashing.FromUint64(k / 100) })
}

func newTestTable(t *testing.T, slots, cellar uint64, h hashing.Hasher[uint64]) (*u64Table, *alloc.Heap) {
	t.Helper()
	a := alloc.NewHeap(0)
	tbl, err := Create(a, Config{SlotCount: slots, CellarCount: cellar}, codec.Uint64(), codec.Uint64(), h, nil)
	require.NoError(t, err)
	return tbl, a
}

// memBytes exposes the raw layout of a heap-backed table.
func memBytes(t *testing.T, tbl *u64Table) []byte {
	t.Helper()
	m, ok := tbl.Region().(*region.Mem)
	require.True(t, ok, "test table must be heap-backed")
	return m.Bytes()
}

// rawSlot decodes slot i straight from the region bytes.
func rawSlot(t *testing.T, tbl *u64Table, i uint64) (free bool, link uint64) {
	t.Helper()
	b := memBytes(t, tbl)
	off := int(tbl.slotOffset(i))
	return b[off+slotFreeOffset] == slotFree, buf.ReadU64LE(b, off+slotLinkOffset)
}

// setRawLink overwrites slot i's link, for corruption tests.
func setRawLink(t *testing.T, tbl *u64Table, i, link uint64) {
	t.Helper()
	buf.PutU64LE(memBytes(t, tbl), int(tbl.slotOffset(i))+slotLinkOffset, link)
}

// setRawFree overwrites slot i's free flag, for corruption tests.
func setRawFree(t *testing.T, tbl *u64Table, i uint64, free bool) {
	t.Helper()
	v := slotLive
	if free {
		v = slotFree
	}
	memBytes(t, tbl)[int(tbl.slotOffset(i))+slotFreeOffset] = v
}

func requireValue(t *testing.T, tbl *u64Table, k, want uint64) {
	t.Helper()
	got, ok, err := tbl.Lookup(k)
	require.NoError(t, err)
	require.True(t, ok, "key %d should be present", k)
	require.Equal(t, want, got, "key %d", k)
}

func requireAbsent(t *testing.T, tbl *u64Table, k uint64) {
	t.Helper()
	_, ok, err := tbl.Lookup(k)
	require.NoError(t, err)
	require.False(t, ok, "key %d should be absent", k)
}

func requireValid(t *testing.T, tbl *u64Table) Report {
	t.Helper()
	rep, err := tbl.Verify()
	require.NoError(t, err)
	return rep
}

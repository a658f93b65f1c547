package table

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/hashing"
)

// chainOfThree builds home 2 -> 3 -> 4 holding keys 1, 2, 3.
func chainOfThree(t *testing.T, opts *Options) *u64Table {
	t.Helper()
	a := alloc.NewHeap(0)
	tbl, err := Create(a, Config{SlotCount: 8, CellarCount: 2}, codec.Uint64(), codec.Uint64(), sameHome(), opts)
	require.NoError(t, err)
	for k := uint64(1); k <= 3; k++ {
		require.NoError(t, tbl.Put(k, k*100))
	}
	_, l := rawSlot(t, tbl, 2)
	require.Equal(t, uint64(3), l)
	_, l = rawSlot(t, tbl, 3)
	require.Equal(t, uint64(4), l)
	return tbl
}

func TestVerify_Clean(t *testing.T) {
	tbl := chainOfThree(t, nil)
	rep := requireValid(t, tbl)
	assert.Equal(t, Report{Live: 3, Free: 5, Chains: 3, LongestChain: 3}, rep)
}

func TestVerify_DetectsDamage(t *testing.T) {
	tests := []struct {
		name   string
		damage func(t *testing.T, tbl *u64Table)
	}{
		{"free slot linked into chain", func(t *testing.T, tbl *u64Table) {
			setRawFree(t, tbl, 3, true)
		}},
		{"link out of range", func(t *testing.T, tbl *u64Table) {
			setRawLink(t, tbl, 4, 99)
		}},
		{"cycle", func(t *testing.T, tbl *u64Table) {
			setRawLink(t, tbl, 4, 2)
		}},
		{"live count disagrees with header", func(t *testing.T, tbl *u64Table) {
			setRawFree(t, tbl, 7, false)
		}},
		{"live slot unreachable", func(t *testing.T, tbl *u64Table) {
			// Cut the chain after slot 3; slot 4 stays live.
			setRawLink(t, tbl, 3, 3)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := chainOfThree(t, nil)
			tt.damage(t, tbl)
			_, err := tbl.Verify()
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestVerify_DuplicateKey(t *testing.T) {
	tbl := chainOfThree(t, nil)
	// Copy slot 3's key into slot 4, so key 2 appears twice in one chain.
	b := memBytes(t, tbl)
	src, dst := int(tbl.slotOffset(3)), int(tbl.slotOffset(4))
	copy(b[dst+slotKeyOffset:dst+slotKeyOffset+8], b[src+slotKeyOffset:src+slotKeyOffset+8])

	_, err := tbl.Verify()
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "stored 2 times")
}

func TestLookup_CycleIsCorrupt(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	tbl := chainOfThree(t, &Options{Logger: logger})
	setRawLink(t, tbl, 4, 2)

	_, _, err := tbl.Lookup(99)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, logs.String(), "corruption detected")

	require.ErrorIs(t, tbl.Put(99, 1), ErrCorrupt)
	require.ErrorIs(t, tbl.Delete(99), ErrCorrupt)
}

func TestLookup_BadFreeFlag(t *testing.T) {
	tbl := chainOfThree(t, nil)
	memBytes(t, tbl)[int(tbl.slotOffset(2))+slotFreeOffset] = 0x7f

	_, _, err := tbl.Lookup(1)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestFreeSlotInChain_FailsByDefault(t *testing.T) {
	tbl := chainOfThree(t, nil)
	setRawFree(t, tbl, 3, true) // free, but still links to 4
	setHeaderItems(t, tbl, 2)

	_, _, err := tbl.Lookup(3)
	require.ErrorIs(t, err, ErrCorrupt)
	require.ErrorIs(t, tbl.Put(3, 1), ErrCorrupt)
	require.ErrorIs(t, tbl.Delete(3), ErrCorrupt)

	// Keys before the damage are still served.
	requireValue(t, tbl, 1, 100)
}

func TestFreeSlotInChain_Repair(t *testing.T) {
	tbl := chainOfThree(t, &Options{RepairFreeLinks: true})
	setRawFree(t, tbl, 3, true)
	setHeaderItems(t, tbl, 2)

	// Lookup walks through the free slot without changing anything.
	requireValue(t, tbl, 3, 300)
	requireAbsent(t, tbl, 2)

	// A modifying walk splices it out.
	require.NoError(t, tbl.Put(3, 301))
	free, link := rawSlot(t, tbl, 3)
	assert.True(t, free)
	assert.Equal(t, uint64(3), link, "repaired slot is self-linked")
	_, link = rawSlot(t, tbl, 2)
	assert.Equal(t, uint64(4), link, "predecessor skips the repaired slot")

	requireValue(t, tbl, 3, 301)
	requireValid(t, tbl)
}

func TestFreeSlotInChain_RepairAtHome(t *testing.T) {
	tbl := chainOfThree(t, &Options{RepairFreeLinks: true})
	setRawFree(t, tbl, 2, true) // home slot free, links on to 3
	setHeaderItems(t, tbl, 2)

	requireValue(t, tbl, 2, 200)
	requireValue(t, tbl, 3, 300)
	require.NoError(t, tbl.Delete(3))
	requireAbsent(t, tbl, 3)
	requireValue(t, tbl, 2, 200)
}

func TestFindFree_SkipsNonTailFreeSlots(t *testing.T) {
	tbl := chainOfThree(t, nil)
	// Slot 5 is free but links to 6: not a usable tail.
	setRawLink(t, tbl, 5, 6)

	require.NoError(t, tbl.Put(4, 400))
	free, _ := rawSlot(t, tbl, 5)
	assert.True(t, free, "damaged slot not taken")
	free, _ = rawSlot(t, tbl, 6)
	assert.False(t, free)
	requireValue(t, tbl, 4, 400)
}

func setHeaderItems(t *testing.T, tbl *u64Table, n uint64) {
	t.Helper()
	tbl.hdr.itemCount = n
	require.NoError(t, tbl.writeHeader())
}

func TestPersistence_DirAllocator(t *testing.T) {
	if testing.Short() {
		t.Skip("mmap test skipped in short mode")
	}
	root := t.TempDir()
	h := hashing.NewSip([hashing.KeySize]byte{9}, codec.String(16))
	keys, vals := codec.String(16), codec.Uint64()

	d, err := alloc.NewDir(root)
	require.NoError(t, err)
	tbl, err := Create(d, Config{SlotCount: 32, CellarCount: 8}, keys, vals, h, nil)
	require.NoError(t, err)
	for i, name := range []string{"alpha", "beta", "gamma", "delta"} {
		require.NoError(t, tbl.Put(name, uint64(i)))
	}
	require.NoError(t, tbl.Delete("beta"))
	ref := tbl.Ref()
	require.NoError(t, d.Flush(context.Background()))
	require.NoError(t, d.Close())

	d2, err := alloc.NewDir(root)
	require.NoError(t, err)
	m, err := d2.Open(ref)
	require.NoError(t, err)
	again, err := Open(m, keys, vals, h, nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), again.Len())
	for name, want := range map[string]uint64{"alpha": 0, "gamma": 2, "delta": 3} {
		got, ok, err := again.Lookup(name)
		require.NoError(t, err)
		require.True(t, ok, name)
		assert.Equal(t, want, got)
	}
	_, ok, err := again.Lookup("beta")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = again.Verify()
	require.NoError(t, err)

	require.NoError(t, d2.Deallocate(ref))
	assert.NoFileExists(t, d2.Path(ref))
}

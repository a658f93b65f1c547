package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/table/region"
)

func TestHeap_AllocateAndDeallocate(t *testing.T) {
	h := NewHeap(0)

	ref, r, err := h.Allocate(128)
	require.NoError(t, err)
	require.NotEmpty(t, ref)
	require.Equal(t, int64(128), r.Size())
	assert.Equal(t, 1, h.Live())
	assert.Equal(t, int64(128), h.InUse())

	require.NoError(t, h.Deallocate(ref))
	assert.Zero(t, h.Live())
	assert.Zero(t, h.InUse())

	_, err = r.OpenReader(0)
	require.ErrorIs(t, err, region.ErrClosed, "released region must not be usable")
}

func TestHeap_BudgetExhausted(t *testing.T) {
	h := NewHeap(100)

	_, _, err := h.Allocate(60)
	require.NoError(t, err)

	_, _, err = h.Allocate(60)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, int64(60), h.InUse(), "failed allocation must not leak budget")

	_, _, err = h.Allocate(40)
	require.NoError(t, err, "exact fit within budget")
}

func TestHeap_BadRequests(t *testing.T) {
	h := NewHeap(0)

	_, _, err := h.Allocate(0)
	require.ErrorIs(t, err, ErrBadSize)

	require.ErrorIs(t, h.Deallocate("mem:nope"), ErrBadRef)

	ref, _, err := h.Allocate(8)
	require.NoError(t, err)
	require.NoError(t, h.Deallocate(ref))
	require.ErrorIs(t, h.Deallocate(ref), ErrBadRef, "double free")
}

func TestHeap_DistinctRefs(t *testing.T) {
	h := NewHeap(0)
	seen := make(map[Ref]bool)
	for range 50 {
		ref, _, err := h.Allocate(1)
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate ref %s", ref)
		seen[ref] = true
	}
	assert.Equal(t, 50, h.Live())
}

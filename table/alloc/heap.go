package alloc

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/llxisdsh/pb"

	"github.com/joshuapare/slotkit/table/region"
)

// Heap allocates regions on the Go heap.
type Heap struct {
	budget int64
	used   atomic.Int64
	live   *pb.MapOf[Ref, *region.Mem]
}

// NewHeap returns a heap allocator. budget caps the total bytes live at once;
// zero means unlimited.
func NewHeap(budget int64) *Heap {
	return &Heap{
		budget: budget,
		live:   pb.NewMapOf[Ref, *region.Mem](),
	}
}

func (h *Heap) Allocate(size int64) (Ref, region.Region, error) {
	if size <= 0 {
		return "", nil, ErrBadSize
	}
	if used := h.used.Add(size); h.budget > 0 && used > h.budget {
		h.used.Add(-size)
		return "", nil, fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrNoSpace, size, used-size, h.budget)
	}
	ref := Ref("mem:" + uuid.NewString())
	m := region.NewMem(size)
	h.live.Store(ref, m)
	return ref, m, nil
}

func (h *Heap) Deallocate(ref Ref) error {
	m, ok := h.live.LoadAndDelete(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBadRef, ref)
	}
	h.used.Add(-m.Size())
	m.Release()
	return nil
}

// Live returns the number of regions not yet deallocated.
func (h *Heap) Live() int { return h.live.Size() }

// InUse returns the total bytes of live regions.
func (h *Heap) InUse() int64 { return h.used.Load() }

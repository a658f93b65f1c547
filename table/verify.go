package table

import (
	"errors"
	"fmt"
)

// Stats summarizes a table from its header.
type Stats struct {
	Slots      uint64  `json:"slots"`
	Cellar     uint64  `json:"cellar"`
	Items      uint64  `json:"items"`
	SlotSize   int64   `json:"slot_size"`
	Bytes      int64   `json:"bytes"`
	LoadFactor float64 `json:"load_factor"`
	FreeHint   uint64  `json:"free_hint"`
}

// Stats returns header-level statistics without touching the slots.
func (t *Table[K, V]) Stats() Stats {
	return Stats{
		Slots:      t.hdr.slotCount,
		Cellar:     t.hdr.cellarCount,
		Items:      t.hdr.itemCount,
		SlotSize:   t.slotSize,
		Bytes:      t.r.Size(),
		LoadFactor: float64(t.hdr.itemCount) / float64(t.hdr.slotCount),
		FreeHint:   t.hdr.freeHint,
	}
}

// Report is the result of a full Verify pass.
type Report struct {
	Live         uint64 `json:"live"`
	Free         uint64 `json:"free"`
	Chains       uint64 `json:"chains"`        // home slots whose chain holds at least one live slot
	LongestChain uint64 `json:"longest_chain"` // slots, counted from a home slot to its tail
}

const (
	unvisited uint8 = iota
	visiting
	done
)

// Verify reads every slot and checks the table invariants:
//   - every free slot is a self-linked tail
//   - every link is in range and no chain contains a cycle
//   - the number of live slots equals the item count
//   - every live key is reachable from its home slot, exactly once
//
// Problems are collected and returned together, each wrapping ErrCorrupt.
func (t *Table[K, V]) Verify() (Report, error) {
	var (
		rep  Report
		errs []error
	)
	n := t.hdr.slotCount
	slots := make([]slot[K], n)
	for i := range n {
		s, err := t.readSlot(i)
		if err != nil {
			return rep, err
		}
		slots[i] = s
		switch {
		case s.link >= n:
			errs = append(errs, fmt.Errorf("%w: slot %d links to %d beyond slot count", ErrCorrupt, i, s.link))
		case s.free && !s.isTail(i):
			errs = append(errs, fmt.Errorf("%w: free slot %d links to %d", ErrCorrupt, i, s.link))
		}
		if s.free {
			rep.Free++
		} else {
			rep.Live++
		}
	}
	if rep.Live != t.hdr.itemCount {
		errs = append(errs, fmt.Errorf("%w: %d live slots, header item count %d", ErrCorrupt, rep.Live, t.hdr.itemCount))
	}
	if len(errs) > 0 {
		// Links are unreliable; chain walks below could run off the table.
		return rep, errors.Join(errs...)
	}

	// Cycle detection: iterative walk with three-color marking.
	state := make([]uint8, n)
	for start := range n {
		if state[start] != unvisited {
			continue
		}
		var path []uint64
		i := start
		for state[i] == unvisited {
			state[i] = visiting
			path = append(path, i)
			if slots[i].isTail(i) {
				break
			}
			i = slots[i].link
		}
		if state[i] == visiting && !slots[i].isTail(i) {
			errs = append(errs, fmt.Errorf("%w: cycle through slot %d", ErrCorrupt, i))
		}
		for _, p := range path {
			state[p] = done
		}
	}
	if len(errs) > 0 {
		return rep, errors.Join(errs...)
	}

	// Chain lengths from each home slot.
	for h := t.hdr.cellarCount; h < n; h++ {
		length, live := uint64(1), !slots[h].free
		for i := h; !slots[i].isTail(i); i = slots[i].link {
			length++
			live = live || !slots[slots[i].link].free
		}
		if live {
			rep.Chains++
			rep.LongestChain = max(rep.LongestChain, length)
		}
	}

	// Reachability: walking from home(key) must meet this slot, and no
	// other live slot with an equal key.
	for j := range n {
		if slots[j].free {
			continue
		}
		key := slots[j].key
		found, dups := false, 0
		for i := t.home(key); ; i = slots[i].link {
			if !slots[i].free && t.hasher.Equal(slots[i].key, key) {
				dups++
				found = found || i == j
			}
			if slots[i].isTail(i) {
				break
			}
		}
		switch {
		case !found:
			errs = append(errs, fmt.Errorf("%w: live slot %d not reachable from home %d", ErrCorrupt, j, t.home(key)))
		case dups > 1:
			errs = append(errs, fmt.Errorf("%w: key in slot %d stored %d times in its chain", ErrCorrupt, j, dups))
		}
	}
	return rep, errors.Join(errs...)
}

package table

import (
	"errors"
	"fmt"

	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/opt"
)

// Modify upserts key when val is present and deletes it when absent.
//
// Deleting a missing key is a successful no-op. Inserting a new key into a
// table whose slots are all live returns ErrFull and changes nothing.
// Serializer errors are returned before anything is written.
//
// Deleting a key from the middle of a chain moves the entries behind it. A
// region error during that move loses the entries not yet moved; the header
// is still written so the item count on disk matches the slots left live.
func (t *Table[K, V]) Modify(key K, val opt.Value[V]) error {
	keyBytes, err := codec.Encode(t.keys, key)
	if err != nil {
		return fmt.Errorf("table: encode key: %w", err)
	}
	v, ok := val.Get()
	if !ok {
		return t.remove(key)
	}
	valBytes, err := codec.Encode(t.vals, v)
	if err != nil {
		return fmt.Errorf("table: encode value: %w", err)
	}
	if err := t.upsert(key, keyBytes, valBytes); err != nil {
		return err
	}
	return t.writeHeader()
}

// Put stores v under key.
func (t *Table[K, V]) Put(key K, v V) error {
	return t.Modify(key, opt.Some(v))
}

// Delete removes key if present.
func (t *Table[K, V]) Delete(key K) error {
	return t.Modify(key, opt.None[V]())
}

// walker follows a chain from a home slot, remembering the predecessor.
type walker struct {
	home  uint64
	i     uint64
	p     uint64
	hasP  bool
	hops  uint64
	limit uint64
}

func (w *walker) advance(next uint64) {
	w.p, w.hasP = w.i, true
	w.i = next
	w.hops++
}

// freeInChain handles a free slot that is not a chain tail. Every operation
// keeps free slots self-linked, so this is damage: fail, or with
// RepairFreeLinks splice the slot out of the chain and keep walking.
func (t *Table[K, V]) freeInChain(w *walker, s slot[K]) error {
	if !t.repair {
		return t.corrupt("free slot %d inside chain from home %d links to %d", w.i, w.home, s.link)
	}
	t.log.Warn("table: repairing free slot inside chain", "slot", w.i, "home", w.home, "link", s.link)
	if !w.hasP {
		// Home slot: nothing links to it from this chain, so pass through.
		w.advance(s.link)
		return nil
	}
	if err := t.setLink(w.p, s.link); err != nil {
		return err
	}
	if err := t.markFree(w.i); err != nil {
		return err
	}
	w.i = s.link
	w.hops++
	return nil
}

// upsert writes key/value, overwriting a live match or taking a new slot.
// The caller writes the header.
func (t *Table[K, V]) upsert(key K, keyBytes, valBytes []byte) error {
	w := &walker{home: t.home(key), limit: t.hdr.slotCount}
	w.i = w.home
	for {
		if w.hops >= w.limit {
			return t.corrupt("chain from home %d exceeds %d slots", w.home, w.limit)
		}
		s, err := t.readSlot(w.i)
		if err != nil {
			return err
		}
		tail := s.isTail(w.i)

		switch {
		case s.free && tail:
			// A free tail ends the chain; the key is absent, so take the slot.
			if err := t.writeEntry(w.i, w.i, keyBytes, valBytes); err != nil {
				return err
			}
			t.filled(w.i)
			return nil

		case s.free:
			if err := t.freeInChain(w, s); err != nil {
				return err
			}

		case t.hasher.Equal(s.key, key):
			return t.writeValue(w.i, valBytes)

		case tail:
			if t.hdr.itemCount >= t.hdr.slotCount {
				return ErrFull
			}
			j, err := t.findFree()
			if err != nil {
				return err
			}
			// Write the new slot before linking to it, so a failed write
			// leaves the chain as it was.
			if err := t.writeEntry(j, j, keyBytes, valBytes); err != nil {
				return err
			}
			if err := t.setLink(w.i, j); err != nil {
				return err
			}
			t.filled(j)
			return nil

		default:
			w.advance(s.link)
		}
	}
}

// remove deletes key if present and writes the header.
func (t *Table[K, V]) remove(key K) error {
	w := &walker{home: t.home(key), limit: t.hdr.slotCount}
	w.i = w.home
	for {
		if w.hops >= w.limit {
			return t.corrupt("chain from home %d exceeds %d slots", w.home, w.limit)
		}
		s, err := t.readSlot(w.i)
		if err != nil {
			return err
		}
		tail := s.isTail(w.i)

		switch {
		case s.free && tail:
			return nil

		case s.free:
			if err := t.freeInChain(w, s); err != nil {
				return err
			}

		case t.hasher.Equal(s.key, key):
			if tail {
				return t.removeTail(w)
			}
			return t.removeInner(w, s.link)

		case tail:
			return nil

		default:
			w.advance(s.link)
		}
	}
}

// removeTail frees the last slot of a chain and makes the predecessor the
// new tail.
func (t *Table[K, V]) removeTail(w *walker) error {
	if err := t.markFree(w.i); err != nil {
		return err
	}
	if w.hasP {
		if err := t.setLink(w.p, w.p); err != nil {
			return err
		}
	}
	t.emptied(w.i, 1)
	return t.writeHeader()
}

// removeInner frees a slot that other slots follow. The slot cannot simply
// be spliced out: with coalescing, slots from other chains may also link to
// it, and they would lose everything behind it. Instead the slot and its
// whole suffix are freed (each becomes a self-linked tail, which any chain
// still pointing at it treats as its end) and the suffix entries are
// inserted again from their own homes.
func (t *Table[K, V]) removeInner(w *walker, next uint64) error {
	var suffix []rawEntry[K]
	var freed []uint64
	for j, hops := next, w.hops+1; ; hops++ {
		if hops >= w.limit {
			return t.corrupt("chain from home %d exceeds %d slots", w.home, w.limit)
		}
		if j >= t.hdr.slotCount {
			return t.corrupt("link to slot %d beyond slot count %d", j, t.hdr.slotCount)
		}
		h, e, err := t.readRaw(j)
		if err != nil {
			return err
		}
		if h.free {
			if !h.isTail(j) {
				return t.corrupt("free slot %d inside chain from home %d links to %d", j, w.home, h.link)
			}
			break
		}
		suffix = append(suffix, e)
		freed = append(freed, j)
		if h.isTail(j) {
			break
		}
		j = h.link
	}

	if err := t.markFree(w.i); err != nil {
		return err
	}
	t.emptied(w.i, 1)
	for _, j := range freed {
		if err := t.markFree(j); err != nil {
			return errors.Join(err, t.writeHeader())
		}
		t.emptied(w.i, 1)
	}

	for _, e := range suffix {
		if err := t.upsert(e.key, e.keyBytes, e.valBytes); err != nil {
			return errors.Join(fmt.Errorf("table: re-home after delete: %w", err), t.writeHeader())
		}
	}
	if len(suffix) > 0 {
		t.log.Debug("table: re-homed chain suffix", "home", w.home, "slot", w.i, "moved", len(suffix))
	}
	return t.writeHeader()
}

// findFree scans forward from freeHint+1, wrapping, for a free tail slot.
func (t *Table[K, V]) findFree() (uint64, error) {
	n := t.hdr.slotCount
	for step := uint64(1); step <= n; step++ {
		j := (t.hdr.freeHint + step) % n
		h, err := t.readHead(j)
		if err != nil {
			return 0, err
		}
		if !h.free {
			continue
		}
		if !h.isTail(j) {
			// Still part of some chain; taking it would cut that chain.
			t.log.Warn("table: skipping free slot that is not a tail", "slot", j, "link", h.link)
			continue
		}
		return j, nil
	}
	return 0, t.corrupt("no free slot found with item count %d of %d", t.hdr.itemCount, n)
}

// filled records a new live slot.
func (t *Table[K, V]) filled(i uint64) {
	t.hdr.itemCount++
	t.hdr.freeHint = i
}

// emptied records n freed slots; the next scan starts at slot i.
func (t *Table[K, V]) emptied(i, n uint64) {
	t.hdr.itemCount -= n
	t.hdr.freeHint = (i + t.hdr.slotCount - 1) % t.hdr.slotCount
}

package table

import (
	"bytes"
	"fmt"
	"io"

	"github.com/joshuapare/slotkit/internal/buf"
	"github.com/joshuapare/slotkit/table/region"
)

// Every slot access opens one stream, uses it, and finishes it before
// returning; no stream outlives the call that opened it.

func withReader(r region.Region, off int64, fn func(io.Reader) error) error {
	rd, err := r.OpenReader(off)
	if err != nil {
		return err
	}
	if err := fn(rd); err != nil {
		_ = rd.Finish()
		return err
	}
	return rd.Finish()
}

func withWriter(r region.Region, off int64, chunks ...[]byte) error {
	w, err := r.OpenWriter(off)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			_ = w.Finish()
			return err
		}
	}
	return w.Finish()
}

func (t *Table[K, V]) slotOffset(i uint64) int64 {
	return HeaderSize + int64(i)*t.slotSize
}

// slot is a decoded slot; key is set only when the slot is live.
type slot[K any] struct {
	slotHead
	key K
}

// readSlot reads the head and, for live slots, the key.
func (t *Table[K, V]) readSlot(i uint64) (slot[K], error) {
	var s slot[K]
	if i >= t.hdr.slotCount {
		return s, t.corrupt("link to slot %d beyond slot count %d", i, t.hdr.slotCount)
	}
	err := withReader(t.r, t.slotOffset(i), func(rd io.Reader) error {
		raw, err := readFull(rd, SlotOverhead)
		if err != nil {
			return err
		}
		if s.slotHead, err = decodeHead(raw); err != nil {
			return err
		}
		if s.free {
			return nil
		}
		s.key, err = t.keys.Deserialize(rd)
		return err
	})
	if err != nil {
		return s, fmt.Errorf("table: read slot %d: %w", i, err)
	}
	return s, nil
}

// readHead reads only the free flag and link.
func (t *Table[K, V]) readHead(i uint64) (slotHead, error) {
	var h slotHead
	err := withReader(t.r, t.slotOffset(i), func(rd io.Reader) error {
		raw, err := readFull(rd, SlotOverhead)
		if err != nil {
			return err
		}
		h, err = decodeHead(raw)
		return err
	})
	if err != nil {
		return h, fmt.Errorf("table: read slot %d: %w", i, err)
	}
	return h, nil
}

func (t *Table[K, V]) readValue(i uint64) (V, error) {
	var v V
	off := t.slotOffset(i) + slotKeyOffset + int64(t.keys.Size())
	err := withReader(t.r, off, func(rd io.Reader) error {
		var err error
		v, err = t.vals.Deserialize(rd)
		return err
	})
	if err != nil {
		return v, fmt.Errorf("table: read value %d: %w", i, err)
	}
	return v, nil
}

// rawEntry is a live slot's encoded key and value, moved without
// re-serializing when a chain suffix is re-homed.
type rawEntry[K any] struct {
	key      K
	keyBytes []byte
	valBytes []byte
}

func (t *Table[K, V]) readRaw(i uint64) (slotHead, rawEntry[K], error) {
	var (
		h slotHead
		e rawEntry[K]
	)
	err := withReader(t.r, t.slotOffset(i), func(rd io.Reader) error {
		raw, err := readFull(rd, int(t.slotSize))
		if err != nil {
			return err
		}
		if h, err = decodeHead(raw[:SlotOverhead]); err != nil || h.free {
			return err
		}
		keyEnd := SlotOverhead + t.keys.Size()
		e.keyBytes = raw[SlotOverhead:keyEnd]
		e.valBytes = raw[keyEnd:]
		e.key, err = t.keys.Deserialize(bytes.NewReader(e.keyBytes))
		return err
	})
	if err != nil {
		return h, e, fmt.Errorf("table: read slot %d: %w", i, err)
	}
	return h, e, nil
}

// writeEntry makes slot i live with the given link, key and value.
func (t *Table[K, V]) writeEntry(i, link uint64, keyBytes, valBytes []byte) error {
	if err := withWriter(t.r, t.slotOffset(i), encodeHead(false, link), keyBytes, valBytes); err != nil {
		return fmt.Errorf("table: write slot %d: %w", i, err)
	}
	return nil
}

func (t *Table[K, V]) writeValue(i uint64, valBytes []byte) error {
	off := t.slotOffset(i) + slotKeyOffset + int64(t.keys.Size())
	if err := withWriter(t.r, off, valBytes); err != nil {
		return fmt.Errorf("table: write value %d: %w", i, err)
	}
	return nil
}

func (t *Table[K, V]) setLink(i, link uint64) error {
	b := make([]byte, 8)
	buf.PutU64LE(b, 0, link)
	if err := withWriter(t.r, t.slotOffset(i)+slotLinkOffset, b); err != nil {
		return fmt.Errorf("table: link slot %d: %w", i, err)
	}
	return nil
}

// markFree frees slot i and makes it a tail. Key and value bytes are left
// in place; they are undefined once the slot is free.
func (t *Table[K, V]) markFree(i uint64) error {
	if err := withWriter(t.r, t.slotOffset(i), encodeHead(true, i)); err != nil {
		return fmt.Errorf("table: free slot %d: %w", i, err)
	}
	return nil
}

func (t *Table[K, V]) writeHeader() error {
	if err := withWriter(t.r, 0, t.hdr.encode()); err != nil {
		return fmt.Errorf("table: write header: %w", err)
	}
	return nil
}

// format writes the header and every slot as free and self-linked, in one
// sequential stream.
func (t *Table[K, V]) format() error {
	w, err := t.r.OpenWriter(0)
	if err != nil {
		return fmt.Errorf("table: format: %w", err)
	}
	if _, err := w.Write(t.hdr.encode()); err != nil {
		_ = w.Finish()
		return fmt.Errorf("table: format header: %w", err)
	}
	rec := make([]byte, t.slotSize)
	for i := uint64(0); i < t.hdr.slotCount; i++ {
		copy(rec, encodeHead(true, i))
		if _, err := w.Write(rec); err != nil {
			_ = w.Finish()
			return fmt.Errorf("table: format slot %d: %w", i, err)
		}
	}
	return w.Finish()
}

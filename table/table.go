package table

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/hashing"
	"github.com/joshuapare/slotkit/table/region"
)

// Table is a fixed-capacity coalesced hash table stored in one region.
//
// NOT thread-safe. A Table assumes a single logical writer; callers serialize
// access externally.
type Table[K, V any] struct {
	r      region.Region
	keys   codec.Serializer[K]
	vals   codec.Serializer[V]
	hasher hashing.Hasher[K]
	log    *slog.Logger
	repair bool

	hdr      header
	slotSize int64

	// Set only for tables made by Create.
	owner alloc.Allocator
	ref   alloc.Ref
}

// Create allocates a region for cfg.SlotCount slots and formats it: every
// slot free and self-linked, item count zero.
func Create[K, V any](
	a alloc.Allocator,
	cfg Config,
	keys codec.Serializer[K],
	vals codec.Serializer[V],
	hasher hashing.Hasher[K],
	opts *Options,
) (*Table[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slotSize := SlotSize(keys.Size(), vals.Size())
	size, err := RegionSize(cfg.SlotCount, slotSize)
	if err != nil {
		return nil, err
	}

	ref, r, err := a.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocation, size, err)
	}

	o := resolveOptions(opts)
	t := &Table[K, V]{
		r:        r,
		keys:     keys,
		vals:     vals,
		hasher:   hasher,
		log:      o.Logger,
		repair:   o.RepairFreeLinks,
		hdr:      header{slotCount: cfg.SlotCount, cellarCount: cfg.CellarCount},
		slotSize: slotSize,
		owner:    a,
		ref:      ref,
	}
	if err := t.format(); err != nil {
		_ = a.Deallocate(ref)
		return nil, err
	}
	t.log.Debug("table: created",
		"ref", ref, "slots", cfg.SlotCount, "cellar", cfg.CellarCount, "slot_size", slotSize, "bytes", size)
	return t, nil
}

// Open attaches to a region formatted by Create, e.g. a file mapped again
// after a restart. The serializers and hasher must match those used to fill
// it; widths are checked against the region size, hashing cannot be.
func Open[K, V any](
	r region.Region,
	keys codec.Serializer[K],
	vals codec.Serializer[V],
	hasher hashing.Hasher[K],
	opts *Options,
) (*Table[K, V], error) {
	if r.Size() < HeaderSize {
		return nil, fmt.Errorf("%w: region of %d bytes is smaller than the header", ErrLayout, r.Size())
	}
	var raw []byte
	err := withReader(r, 0, func(rd io.Reader) error {
		var err error
		raw, err = readFull(rd, HeaderSize)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("table: read header: %w", err)
	}
	hdr := decodeHeader(raw)
	if err := hdr.validate(); err != nil {
		return nil, err
	}

	slotSize := SlotSize(keys.Size(), vals.Size())
	want, err := RegionSize(hdr.slotCount, slotSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if r.Size() != want {
		return nil, fmt.Errorf("%w: region is %d bytes, %d slots of %d bytes need %d",
			ErrLayout, r.Size(), hdr.slotCount, slotSize, want)
	}

	o := resolveOptions(opts)
	t := &Table[K, V]{
		r:        r,
		keys:     keys,
		vals:     vals,
		hasher:   hasher,
		log:      o.Logger,
		repair:   o.RepairFreeLinks,
		hdr:      hdr,
		slotSize: slotSize,
	}
	t.log.Debug("table: opened", "slots", hdr.slotCount, "cellar", hdr.cellarCount, "items", hdr.itemCount)
	return t, nil
}

// Destroy returns the region to the allocator that created it. The table
// must not be used afterwards.
func (t *Table[K, V]) Destroy() error {
	if t.owner == nil {
		return ErrNotOwned
	}
	if err := t.owner.Deallocate(t.ref); err != nil {
		return fmt.Errorf("table: deallocate %s: %w", t.ref, err)
	}
	t.log.Debug("table: destroyed", "ref", t.ref)
	t.owner = nil
	t.r = nil
	return nil
}

// Len returns the number of live items.
func (t *Table[K, V]) Len() uint64 { return t.hdr.itemCount }

// Cap returns the slot count, the maximum number of items.
func (t *Table[K, V]) Cap() uint64 { return t.hdr.slotCount }

// CellarCount returns the number of overflow-only slots.
func (t *Table[K, V]) CellarCount() uint64 { return t.hdr.cellarCount }

// Ref returns the allocator reference, empty for opened tables.
func (t *Table[K, V]) Ref() alloc.Ref { return t.ref }

// Region returns the backing region.
func (t *Table[K, V]) Region() region.Region { return t.r }

// Lookup returns the value stored for key. A missing key is reported with
// found = false, not an error.
func (t *Table[K, V]) Lookup(key K) (V, bool, error) {
	var zero V
	i := t.home(key)
	for hops := uint64(0); ; hops++ {
		if hops >= t.hdr.slotCount {
			return zero, false, t.corrupt("chain from home %d exceeds %d slots", t.home(key), t.hdr.slotCount)
		}
		s, err := t.readSlot(i)
		if err != nil {
			return zero, false, err
		}
		if !s.free && t.hasher.Equal(s.key, key) {
			v, err := t.readValue(i)
			if err != nil {
				return zero, false, err
			}
			return v, true, nil
		}
		if s.isTail(i) {
			return zero, false, nil
		}
		if s.free && !t.repair {
			return zero, false, t.corrupt("free slot %d inside chain links to %d", i, s.link)
		}
		i = s.link
	}
}

// home returns cellarCount + hash(key) mod (slotCount - cellarCount).
func (t *Table[K, V]) home(key K) uint64 {
	return t.hdr.cellarCount + t.hasher.Hash(key).Mod(t.hdr.slotCount-t.hdr.cellarCount)
}

func (t *Table[K, V]) corrupt(format string, args ...any) error {
	err := fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
	t.log.Warn("table: corruption detected", "error", err)
	return err
}
